package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dessertly/ordersync/internal/models"
	"github.com/dessertly/ordersync/internal/repositories"
)

// Store is the live-store adapter backed by a pgx connection pool.
type Store struct {
	pool      *pgxpool.Pool
	customers *CustomerRepository
	orders    *OrderRepository
	catalog   *CatalogRepository
}

func NewStore(ctx context.Context, cfg models.DatabaseConfig) (*Store, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}
	return &Store{
		pool:      pool,
		customers: NewCustomerRepository(pool),
		orders:    NewOrderRepository(pool),
		catalog:   NewCatalogRepository(pool),
	}, nil
}

func (s *Store) Customers() repositories.CustomerRepository { return s.customers }
func (s *Store) Orders() repositories.OrderRepository       { return s.orders }
func (s *Store) Catalog() repositories.CatalogRepository    { return s.catalog }

func (s *Store) Close() {
	s.pool.Close()
}

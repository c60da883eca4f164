package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lucsky/cuid"

	"github.com/dessertly/ordersync/internal/models"
	"github.com/dessertly/ordersync/internal/repositories"
)

type CustomerRepository struct {
	pool *pgxpool.Pool
}

func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

func (r *CustomerRepository) FindByMobile(ctx context.Context, mobile string) (*models.Customer, error) {
	query := `SELECT id, name, mobile FROM customers WHERE mobile = $1`

	customer := &models.Customer{}
	err := r.pool.QueryRow(ctx, query, mobile).Scan(&customer.ID, &customer.Name, &customer.Mobile)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return customer, nil
}

// Create inserts a customer, minting its id. The conditional insert keyed on
// mobile means two concurrent creates for the same number collapse into one
// row, with the later name winning.
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	if customer.ID == "" {
		customer.ID = cuid.New()
	}

	query := `
        INSERT INTO customers (id, name, mobile)
        VALUES ($1, $2, $3)
        ON CONFLICT (mobile) DO UPDATE SET name = EXCLUDED.name
        RETURNING id
    `
	return r.pool.QueryRow(ctx, query, customer.ID, customer.Name, customer.Mobile).Scan(&customer.ID)
}

func (r *CustomerRepository) UpdateName(ctx context.Context, id, name string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE customers SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

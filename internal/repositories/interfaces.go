package repositories

import (
	"context"
	"errors"

	"github.com/dessertly/ordersync/internal/models"
)

// ErrNotFound is returned when a lookup matches no row. Callers distinguish
// it from infrastructure failures, which are returned wrapped.
var ErrNotFound = errors.New("not found")

type CustomerRepository interface {
	FindByMobile(ctx context.Context, mobile string) (*models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
	UpdateName(ctx context.Context, id, name string) error
}

type OrderRepository interface {
	// CreateOrder persists the order header and returns its persistence id.
	CreateOrder(ctx context.Context, order *models.Order, customerID string) (string, error)
	CreateOrderItems(ctx context.Context, dbID string, items []models.OrderItem) error
	// ListOrders returns order headers with their denormalized customer,
	// newest first by creation time. Items are fetched separately.
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListOrderItems(ctx context.Context, dbID string) ([]models.OrderItem, error)
	DeleteOrder(ctx context.Context, dbID string) error
}

type CatalogRepository interface {
	BulkCreate(ctx context.Context, items []*models.MenuItem) error
	Create(ctx context.Context, item *models.MenuItem) error
	GetAll(ctx context.Context) (map[string]*models.MenuItem, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

// Store bundles the repositories a single backing store exposes. The engine
// is constructed against this interface and never learns which adapter it
// got: the Postgres live store or the in-memory offline store.
type Store interface {
	Customers() CustomerRepository
	Orders() OrderRepository
	Catalog() CatalogRepository
}

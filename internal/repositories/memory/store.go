package memory

import (
	"context"
	"sync"

	"github.com/lucsky/cuid"

	"github.com/dessertly/ordersync/internal/models"
	"github.com/dessertly/ordersync/internal/repositories"
)

// Store is the offline adapter: a pure in-memory stand-in selected at
// construction time when no live store is configured. Mutations live only
// for the lifetime of the process.
type Store struct {
	mu sync.Mutex

	customersByID     map[string]*models.Customer
	customersByMobile map[string]*models.Customer
	orders            []*storedOrder // newest first
	items             map[string][]models.OrderItem
	catalog           map[string]*models.MenuItem
}

type storedOrder struct {
	order      models.Order
	customerID string
}

func NewStore() *Store {
	return &Store{
		customersByID:     make(map[string]*models.Customer),
		customersByMobile: make(map[string]*models.Customer),
		items:             make(map[string][]models.OrderItem),
		catalog:           make(map[string]*models.MenuItem),
	}
}

func (s *Store) Customers() repositories.CustomerRepository { return (*customerRepo)(s) }
func (s *Store) Orders() repositories.OrderRepository       { return (*orderRepo)(s) }
func (s *Store) Catalog() repositories.CatalogRepository    { return (*catalogRepo)(s) }

type customerRepo Store

func (r *customerRepo) FindByMobile(_ context.Context, mobile string) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	customer, ok := r.customersByMobile[mobile]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *customer
	return &clone, nil
}

func (r *customerRepo) Create(_ context.Context, customer *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.customersByMobile[customer.Mobile]; ok {
		existing.Name = customer.Name
		customer.ID = existing.ID
		return nil
	}

	if customer.ID == "" {
		customer.ID = cuid.New()
	}
	stored := *customer
	r.customersByID[stored.ID] = &stored
	r.customersByMobile[stored.Mobile] = &stored
	return nil
}

func (r *customerRepo) UpdateName(_ context.Context, id, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	customer, ok := r.customersByID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	customer.Name = name
	return nil
}

type orderRepo Store

func (r *orderRepo) CreateOrder(_ context.Context, order *models.Order, customerID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	dbID := order.DBID
	if dbID == "" {
		dbID = cuid.New()
	}
	header := *order
	header.DBID = dbID
	header.Items = nil
	if customer, ok := r.customersByID[customerID]; ok {
		header.Customer = *customer
	}
	r.orders = append([]*storedOrder{{order: header, customerID: customerID}}, r.orders...)
	return dbID, nil
}

func (r *orderRepo) CreateOrderItems(_ context.Context, dbID string, items []models.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[dbID] = append(r.items[dbID], items...)
	return nil
}

func (r *orderRepo) ListOrders(_ context.Context) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders := make([]models.Order, 0, len(r.orders))
	for _, stored := range r.orders {
		order := stored.order
		if customer, ok := r.customersByID[stored.customerID]; ok {
			order.Customer = *customer
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *orderRepo) ListOrderItems(_ context.Context, dbID string) ([]models.OrderItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, ok := r.items[dbID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := make([]models.OrderItem, len(items))
	copy(out, items)
	return out, nil
}

func (r *orderRepo) DeleteOrder(_ context.Context, dbID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, stored := range r.orders {
		if stored.order.DBID == dbID {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			delete(r.items, dbID)
			return nil
		}
	}
	return repositories.ErrNotFound
}

type catalogRepo Store

func (r *catalogRepo) BulkCreate(_ context.Context, items []*models.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		stored := *item
		r.catalog[stored.ID] = &stored
	}
	return nil
}

func (r *catalogRepo) Create(ctx context.Context, item *models.MenuItem) error {
	return r.BulkCreate(ctx, []*models.MenuItem{item})
}

func (r *catalogRepo) GetAll(_ context.Context) (map[string]*models.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make(map[string]*models.MenuItem, len(r.catalog))
	for id, item := range r.catalog {
		clone := *item
		items[id] = &clone
	}
	return items, nil
}

func (r *catalogRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.catalog), nil
}

func (r *catalogRepo) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catalog = make(map[string]*models.MenuItem)
	return nil
}

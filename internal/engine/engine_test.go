package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dessertly/ordersync/internal/bulk"
	"github.com/dessertly/ordersync/internal/models"
	"github.com/dessertly/ordersync/internal/repositories"
	"github.com/dessertly/ordersync/internal/repositories/memory"
)

const fileHeader = "customer_name,mobile,outlet,date_time,items,total"

func testConfig() *models.Config {
	return &models.Config{
		Catalog:     models.DefaultCatalog(),
		OutletCodes: models.DefaultOutletCodes(),
		TaxRate:     0.10,
		BulkIDSeed:  "bulk",
	}
}

func writeBulkFile(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "historical_orders.csv")
	content := fileHeader + "\n"
	for _, line := range lines {
		content += line + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestEngine(t *testing.T, store repositories.Store, bulkLines ...string) *Engine {
	t.Helper()
	path := writeBulkFile(t, bulkLines...)
	return New(store, bulk.NewSource(path, ""), bulk.NewParser(testConfig()))
}

func sampleOrder(name, mobile string, placedAt time.Time) models.Order {
	catalog := models.DefaultCatalog()
	order := models.Order{
		ID:          "POS-1001",
		Customer:    models.Customer{Name: name, Mobile: mobile},
		Items:       []models.OrderItem{{Item: catalog[0], Quantity: 2}},
		PaymentType: models.PaymentTypeCard,
		Timestamp:   placedAt,
		Status:      models.OrderStatusPending,
	}
	models.ComputeTotals(&order, nil, 0.10)
	return order
}

func TestMergeSortsDescendingAndStable(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	live := []models.Order{
		{DBID: "a", Timestamp: base.Add(2 * time.Hour)},
		{DBID: "b", Timestamp: base},
	}
	historical := []models.Order{
		{DBID: "bulk-1", Timestamp: base.Add(4 * time.Hour)},
		{DBID: "bulk-2", Timestamp: base}, // ties with "b"; concatenation order keeps b first
	}

	merged := Merge(live, historical)
	require.Len(t, merged, 4)
	for i := 1; i < len(merged); i++ {
		assert.False(t, merged[i].Timestamp.After(merged[i-1].Timestamp),
			"timestamps must be non-increasing")
	}
	assert.Equal(t, "b", merged[2].DBID)
	assert.Equal(t, "bulk-2", merged[3].DBID)
}

func TestMergeEmptyLiveIsIdentity(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	historical := []models.Order{
		{DBID: "bulk-1", Timestamp: base.Add(2 * time.Hour)},
		{DBID: "bulk-2", Timestamp: base.Add(time.Hour)},
		{DBID: "bulk-3", Timestamp: base},
	}

	merged := Merge(nil, historical)
	require.Equal(t, historical, merged)
}

func TestMergeDedupsByDBID(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	live := []models.Order{{DBID: "x", Status: models.OrderStatusPending, Timestamp: base}}
	historical := []models.Order{{DBID: "x", Status: models.OrderStatusCompleted, Timestamp: base}}

	merged := Merge(live, historical)
	require.Len(t, merged, 1)
	assert.Equal(t, models.OrderStatusPending, merged[0].Status, "live contribution wins")
}

func TestRefreshMergesLiveAndBulk(t *testing.T) {
	eng := newTestEngine(t, memory.NewStore(),
		`Asha Rao,9990001111,Kondapur,2024-05-02 10:00:00,"Almond Basbousa, Cashew Basbousa",650`,
	)
	ctx := context.Background()

	require.NoError(t, eng.Create(ctx, sampleOrder("Ravi Teja", "9123456780", time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC))))

	orders := eng.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, "Ravi Teja", orders[0].Customer.Name, "newer live order sorts first")
	assert.Equal(t, "bulk-1", orders[1].DBID)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, 2, orders[0].Items[0].Quantity)
}

func TestRefreshRereadsBulkFileEachTime(t *testing.T) {
	path := writeBulkFile(t,
		`Asha Rao,9990001111,Kondapur,2024-05-02 10:00:00,Classic Kunafa,384`,
	)
	eng := New(memory.NewStore(), bulk.NewSource(path, ""), bulk.NewParser(testConfig()))
	ctx := context.Background()

	orders, err := eng.Refresh(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	extra := fileHeader + "\n" +
		`Asha Rao,9990001111,Kondapur,2024-05-02 10:00:00,Classic Kunafa,384` + "\n" +
		`Vikram Seth,8880002222,Madhapur,2024-05-03 18:30:00,Classic Basbousa,274` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(extra), 0o644))

	orders, err = eng.Refresh(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestRefreshMissingBulkFileIsHardError(t *testing.T) {
	eng := New(memory.NewStore(), bulk.NewSource(filepath.Join(t.TempDir(), "missing.csv"), ""), bulk.NewParser(testConfig()))

	orders, err := eng.Refresh(context.Background())
	require.Error(t, err)
	assert.Nil(t, orders)
}

func TestRefreshDegradesWhenLiveStoreFails(t *testing.T) {
	store := &stubStore{orders: &stubOrderRepo{listErr: errors.New("connection refused")}}
	eng := newTestEngine(t, store,
		`Asha Rao,9990001111,Kondapur,2024-05-02 10:00:00,Classic Kunafa,384`,
	)

	orders, err := eng.Refresh(context.Background())
	require.NoError(t, err, "live-store failure must not abort the refresh")
	require.Len(t, orders, 1)
	assert.Equal(t, "bulk-1", orders[0].DBID)
}

func TestReaderSkipsOrdersWithUnreadableItems(t *testing.T) {
	base := time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC)
	repo := &stubOrderRepo{
		headers: []models.Order{
			{DBID: "ok", Timestamp: base.Add(time.Hour)},
			{DBID: "broken", Timestamp: base},
		},
		items:     map[string][]models.OrderItem{"ok": {{Quantity: 1}}},
		itemsErrs: map[string]error{"broken": errors.New("row corrupted")},
	}
	eng := newTestEngine(t, &stubStore{orders: repo})

	orders, err := eng.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "ok", orders[0].DBID)
}

func TestCustomerDedupAcrossOrders(t *testing.T) {
	store := memory.NewStore()
	eng := newTestEngine(t, store)
	ctx := context.Background()

	require.NoError(t, eng.Create(ctx, sampleOrder("A. Rao", "9990001111", time.Now())))
	require.NoError(t, eng.Create(ctx, sampleOrder("Asha Rao", "9990001111", time.Now())))

	customer, err := store.Customers().FindByMobile(ctx, "9990001111")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", customer.Name, "name is last-write-wins")

	orders := eng.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, orders[0].Customer.ID, orders[1].Customer.ID, "one identity for one mobile")
}

func TestDeleteSemantics(t *testing.T) {
	store := memory.NewStore()
	eng := newTestEngine(t, store,
		`Asha Rao,9990001111,Kondapur,2024-05-02 10:00:00,Classic Kunafa,384`,
	)
	ctx := context.Background()

	t.Run("unknown id returns false", func(t *testing.T) {
		assert.False(t, eng.Delete(ctx, "no-such-order"))
	})

	t.Run("live order is deleted from the store", func(t *testing.T) {
		require.NoError(t, eng.Create(ctx, sampleOrder("Ravi Teja", "9123456780", time.Now())))
		var liveDBID string
		for _, order := range eng.Orders() {
			if order.DBID != "bulk-1" {
				liveDBID = order.DBID
			}
		}
		require.NotEmpty(t, liveDBID)

		assert.True(t, eng.Delete(ctx, liveDBID))
		for _, order := range eng.Orders() {
			assert.NotEqual(t, liveDBID, order.DBID)
		}
		assert.False(t, eng.Delete(ctx, liveDBID), "second delete finds nothing")
	})

	t.Run("bulk order is removed from the view until the next refresh", func(t *testing.T) {
		_, err := eng.Refresh(ctx)
		require.NoError(t, err)

		assert.True(t, eng.Delete(ctx, "bulk-1"))
		for _, order := range eng.Orders() {
			assert.NotEqual(t, "bulk-1", order.DBID)
		}

		orders, err := eng.Refresh(ctx)
		require.NoError(t, err)
		found := false
		for _, order := range orders {
			if order.DBID == "bulk-1" {
				found = true
			}
		}
		assert.True(t, found, "refresh re-materializes bulk orders from the file")
	})
}

func TestCreatePropagatesStoreFailure(t *testing.T) {
	store := &stubStore{
		customers: &stubCustomerRepo{findErr: errors.New("connection refused")},
		orders:    &stubOrderRepo{},
	}
	eng := newTestEngine(t, store)

	err := eng.Create(context.Background(), sampleOrder("Asha Rao", "9990001111", time.Now()))
	require.Error(t, err)
}

var _ repositories.Store = &stubStore{}

type stubStore struct {
	customers repositories.CustomerRepository
	orders    repositories.OrderRepository
	catalog   repositories.CatalogRepository
}

func (s *stubStore) Customers() repositories.CustomerRepository { return s.customers }
func (s *stubStore) Orders() repositories.OrderRepository       { return s.orders }
func (s *stubStore) Catalog() repositories.CatalogRepository    { return s.catalog }

type stubCustomerRepo struct {
	findErr error
}

func (r *stubCustomerRepo) FindByMobile(context.Context, string) (*models.Customer, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return nil, repositories.ErrNotFound
}

func (r *stubCustomerRepo) Create(_ context.Context, c *models.Customer) error {
	c.ID = "stub"
	return nil
}

func (r *stubCustomerRepo) UpdateName(context.Context, string, string) error { return nil }

type stubOrderRepo struct {
	headers   []models.Order
	items     map[string][]models.OrderItem
	itemsErrs map[string]error
	listErr   error
}

func (r *stubOrderRepo) CreateOrder(_ context.Context, order *models.Order, _ string) (string, error) {
	return "stub-order", nil
}

func (r *stubOrderRepo) CreateOrderItems(context.Context, string, []models.OrderItem) error {
	return nil
}

func (r *stubOrderRepo) ListOrders(context.Context) ([]models.Order, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.headers, nil
}

func (r *stubOrderRepo) ListOrderItems(_ context.Context, dbID string) ([]models.OrderItem, error) {
	if err, ok := r.itemsErrs[dbID]; ok {
		return nil, err
	}
	return r.items[dbID], nil
}

func (r *stubOrderRepo) DeleteOrder(context.Context, string) error { return nil }

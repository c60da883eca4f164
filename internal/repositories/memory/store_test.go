package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dessertly/ordersync/internal/models"
	"github.com/dessertly/ordersync/internal/repositories"
)

func TestCustomerUpsertByMobile(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	first := &models.Customer{Name: "A. Rao", Mobile: "9990001111"}
	require.NoError(t, store.Customers().Create(ctx, first))
	require.NotEmpty(t, first.ID)

	second := &models.Customer{Name: "Asha Rao", Mobile: "9990001111"}
	require.NoError(t, store.Customers().Create(ctx, second))
	assert.Equal(t, first.ID, second.ID, "same mobile resolves to one identity")

	found, err := store.Customers().FindByMobile(ctx, "9990001111")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", found.Name)

	_, err = store.Customers().FindByMobile(ctx, "0000000000")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCustomerUpdateName(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	customer := &models.Customer{Name: "A. Rao", Mobile: "9990001111"}
	require.NoError(t, store.Customers().Create(ctx, customer))
	require.NoError(t, store.Customers().UpdateName(ctx, customer.ID, "Asha Rao"))

	found, err := store.Customers().FindByMobile(ctx, "9990001111")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", found.Name)

	assert.ErrorIs(t, store.Customers().UpdateName(ctx, "missing", "x"), repositories.ErrNotFound)
}

func TestOrderLifecycle(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	customer := &models.Customer{Name: "Asha Rao", Mobile: "9990001111"}
	require.NoError(t, store.Customers().Create(ctx, customer))

	catalog := models.DefaultCatalog()
	first := models.Order{ID: "POS-1", Timestamp: time.Now().Add(-time.Hour)}
	second := models.Order{ID: "POS-2", Timestamp: time.Now()}

	firstID, err := store.Orders().CreateOrder(ctx, &first, customer.ID)
	require.NoError(t, err)
	require.NotEmpty(t, firstID)
	require.NoError(t, store.Orders().CreateOrderItems(ctx, firstID, []models.OrderItem{
		{Item: catalog[0], Quantity: 1, TotalPrice: catalog[0].Price},
	}))

	secondID, err := store.Orders().CreateOrder(ctx, &second, customer.ID)
	require.NoError(t, err)

	orders, err := store.Orders().ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, secondID, orders[0].DBID, "newest insertion first")
	assert.Equal(t, "Asha Rao", orders[0].Customer.Name)

	items, err := store.Orders().ListOrderItems(ctx, firstID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, catalog[0].Name, items[0].Item.Name)

	_, err = store.Orders().ListOrderItems(ctx, secondID)
	assert.ErrorIs(t, err, repositories.ErrNotFound, "no items were written for the second order")

	require.NoError(t, store.Orders().DeleteOrder(ctx, firstID))
	assert.ErrorIs(t, store.Orders().DeleteOrder(ctx, firstID), repositories.ErrNotFound)

	orders, err = store.Orders().ListOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestCatalogRoundTrip(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	seed := models.DefaultCatalog()
	items := make([]*models.MenuItem, len(seed))
	for i := range seed {
		items[i] = &seed[i]
	}
	require.NoError(t, store.Catalog().BulkCreate(ctx, items))

	count, err := store.Catalog().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(seed), count)

	all, err := store.Catalog().GetAll(ctx)
	require.NoError(t, err)
	assert.Contains(t, all, "bsb-almond")

	require.NoError(t, store.Catalog().DeleteAll(ctx))
	count, err = store.Catalog().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

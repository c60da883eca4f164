package factories

import (
	"math/rand"
	"time"

	"github.com/lucsky/cuid"

	"github.com/dessertly/ordersync/internal/models"
)

type OrderFactory struct{}

// CreateOrder builds a sample order for a customer from the catalog, with a
// valid monetary block and a placement time in [start, now).
func (of *OrderFactory) CreateOrder(customer *models.Customer, catalog []models.MenuItem, cfg *models.Config) models.Order {
	itemCount := fake.IntBetween(1, 3)
	items := make([]models.OrderItem, 0, itemCount)
	picked := rand.Perm(len(catalog))
	for i := 0; i < itemCount && i < len(catalog); i++ {
		items = append(items, models.OrderItem{
			Item:     catalog[picked[i]],
			Quantity: fake.IntBetween(1, 3),
		})
	}

	order := models.Order{
		ID:          cuid.Slug(),
		Customer:    *customer,
		Items:       items,
		PaymentType: models.PaymentTypes[rand.Intn(len(models.PaymentTypes))],
		Timestamp:   randomTime(cfg.SeedStartDate),
		Status:      models.OrderStatusCompleted,
	}

	var discount *models.DiscountCode
	if len(cfg.DiscountCodes) > 0 && rand.Float64() < 0.2 {
		discount = &cfg.DiscountCodes[rand.Intn(len(cfg.DiscountCodes))]
	}
	models.ComputeTotals(&order, discount, cfg.TaxRate)
	return order
}

func randomTime(start time.Time) time.Time {
	if start.IsZero() {
		start = time.Now().AddDate(0, -1, 0)
	}
	window := time.Since(start)
	if window <= 0 {
		return start
	}
	return start.Add(time.Duration(rand.Int63n(int64(window))))
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotalsInvariant(t *testing.T) {
	catalog := DefaultCatalog()
	order := Order{Items: []OrderItem{
		{Item: catalog[0], Quantity: 2},
		{Item: catalog[4], Quantity: 1},
	}}

	ComputeTotals(&order, nil, 0.10)

	require.InDelta(t, 2*catalog[0].Price+catalog[4].Price, order.Subtotal, 1e-9)
	assert.InDelta(t, order.Subtotal*0.10, order.TaxAmount, 1e-9)
	assert.InDelta(t, order.Subtotal-order.DiscountAmount+order.TaxAmount, order.Total, 1e-9)
	assert.InDelta(t, 2*catalog[0].Price, order.Items[0].TotalPrice, 1e-9)
}

func TestComputeTotalsWithDiscount(t *testing.T) {
	catalog := DefaultCatalog()

	t.Run("percentage", func(t *testing.T) {
		order := Order{Items: []OrderItem{{Item: catalog[0], Quantity: 1}}}
		code := DiscountCode{Code: "FEST10", Type: DiscountTypePercentage, Value: 10}

		ComputeTotals(&order, &code, 0.10)

		assert.Equal(t, "FEST10", order.DiscountCode)
		assert.InDelta(t, order.Subtotal*0.10, order.DiscountAmount, 1e-9)
		assert.InDelta(t, (order.Subtotal-order.DiscountAmount)*0.10, order.TaxAmount, 1e-9)
		assert.InDelta(t, order.Subtotal-order.DiscountAmount+order.TaxAmount, order.Total, 1e-9)
	})

	t.Run("fixed cannot exceed subtotal", func(t *testing.T) {
		order := Order{Items: []OrderItem{{Item: catalog[7], Quantity: 1}}}
		code := DiscountCode{Code: "FLAT500", Type: DiscountTypeFixed, Value: 500}

		ComputeTotals(&order, &code, 0.10)

		assert.InDelta(t, order.Subtotal, order.DiscountAmount, 1e-9)
		assert.InDelta(t, 0, order.Total, 1e-9)
	})
}

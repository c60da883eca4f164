package models

import "time"

// OrderItem pairs a MenuItem snapshot with a quantity. The snapshot is frozen
// at order-creation time and never recomputed from later catalog changes.
type OrderItem struct {
	Item       MenuItem `json:"item"`
	Quantity   int      `json:"quantity"`
	TotalPrice float64  `json:"total_price"`
}

// Order is the canonical in-memory representation of a sale, regardless of
// whether it came from the live store or the historical bulk file.
type Order struct {
	ID             string      `json:"id"`              // display order number
	DBID           string      `json:"db_id"`           // persistence identifier
	Customer       Customer    `json:"customer"`        // denormalized copy
	Items          []OrderItem `json:"items"`
	Subtotal       float64     `json:"subtotal"`
	DiscountCode   string      `json:"discount_code,omitempty"`
	DiscountAmount float64     `json:"discount_amount"`
	TaxRate        float64     `json:"tax_rate"`
	TaxAmount      float64     `json:"tax_amount"`
	Total          float64     `json:"total"`
	PaymentType    string      `json:"payment_type"` // cash, card or upi
	Timestamp      time.Time   `json:"timestamp"`
	Status         string      `json:"status"` // pending, completed or cancelled
	Outlet         string      `json:"outlet,omitempty"`
}

// ComputeTotals fills the monetary block of an order from its items:
// subtotal, discount (nil code means none), tax on the discounted subtotal,
// and the final total. Per-item TotalPrice is derived here as well.
func ComputeTotals(order *Order, discount *DiscountCode, taxRate float64) {
	var subtotal float64
	for i := range order.Items {
		order.Items[i].TotalPrice = order.Items[i].Item.Price * float64(order.Items[i].Quantity)
		subtotal += order.Items[i].TotalPrice
	}

	order.Subtotal = subtotal
	order.DiscountAmount = 0
	order.DiscountCode = ""
	if discount != nil {
		order.DiscountCode = discount.Code
		order.DiscountAmount = discount.Amount(subtotal)
	}
	order.TaxRate = taxRate
	order.TaxAmount = (subtotal - order.DiscountAmount) * taxRate
	order.Total = subtotal - order.DiscountAmount + order.TaxAmount
}

package models

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"

	PaymentTypeCash = "cash"
	PaymentTypeCard = "card"
	PaymentTypeUPI  = "upi"

	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// PaymentTypes is the fixed ordering used when deriving a payment type
// from a customer name; changing the order changes every derived value.
var PaymentTypes = []string{PaymentTypeCash, PaymentTypeCard, PaymentTypeUPI}

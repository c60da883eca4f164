package models

// DiscountCode is read-only reference data; the engine never mutates it.
type DiscountCode struct {
	Code        string  `json:"code" mapstructure:"code"`
	Type        string  `json:"type" mapstructure:"type"` // percentage or fixed
	Value       float64 `json:"value" mapstructure:"value"`
	Description string  `json:"description" mapstructure:"description"`
}

// Amount returns the discount this code grants on the given subtotal.
func (d DiscountCode) Amount(subtotal float64) float64 {
	switch d.Type {
	case DiscountTypePercentage:
		return subtotal * d.Value / 100
	case DiscountTypeFixed:
		if d.Value > subtotal {
			return subtotal
		}
		return d.Value
	}
	return 0
}

package pricing

import "github.com/shopspring/decimal"

// Single source for checkout pricing. Cart summaries and order creation
// must quote identical amounts for the same selection.
var (
	// TaxRate is the flat sales tax applied to the merchandise subtotal.
	TaxRate = decimal.NewFromFloat(0.08)

	// FreeShippingThreshold is the subtotal at which shipping becomes free.
	FreeShippingThreshold = decimal.NewFromInt(100)

	// FlatShippingFee is charged below the free shipping threshold.
	FlatShippingFee = decimal.NewFromInt(10)
)

// DeliveryMethod classifies how an order ships based on its size
type DeliveryMethod string

const (
	DeliveryExpedited DeliveryMethod = "expedited"
	DeliveryFast      DeliveryMethod = "fast"
	DeliveryStandard  DeliveryMethod = "standard"
)

// Quote holds the priced breakdown for a merchandise subtotal
type Quote struct {
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	ShippingFee decimal.Decimal
	Total       decimal.Decimal
}

// NewQuote prices a merchandise subtotal:
// tax is rounded to cents, shipping is free at or above the threshold.
func NewQuote(subtotal decimal.Decimal) Quote {
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(TaxRate).Round(2)

	shipping := FlatShippingFee
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	return Quote{
		Subtotal:    subtotal,
		Tax:         tax,
		ShippingFee: shipping,
		Total:       subtotal.Add(tax).Add(shipping),
	}
}

// DeliveryMethodForTransit picks the delivery method label for a
// remaining transit window in days. Short windows read as the faster
// services.
func DeliveryMethodForTransit(days float64) DeliveryMethod {
	switch {
	case days <= 1:
		return DeliveryExpedited
	case days <= 3:
		return DeliveryFast
	default:
		return DeliveryStandard
	}
}

// DeliveryMethodFor picks the delivery method for a total unit count
func DeliveryMethodFor(totalQuantity int) DeliveryMethod {
	switch {
	case totalQuantity <= 1:
		return DeliveryExpedited
	case totalQuantity <= 3:
		return DeliveryFast
	default:
		return DeliveryStandard
	}
}

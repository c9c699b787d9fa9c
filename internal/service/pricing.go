package service

import (
	"github.com/shopspring/decimal"

	"jewelshop/config"
)

// Pricing holds the storefront pricing rules. Shipping is waived once the
// subtotal reaches the free-shipping threshold; tax is a flat percentage
// of the subtotal.
type Pricing struct {
	FreeShippingThreshold decimal.Decimal
	ShippingFlatFee       decimal.Decimal
	TaxRatePercent        decimal.Decimal
}

// NewPricing builds Pricing from business config
func NewPricing(cfg config.BusinessConfig) Pricing {
	return Pricing{
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		ShippingFlatFee:       cfg.ShippingFlatFee,
		TaxRatePercent:        cfg.TaxRatePercent,
	}
}

// ShippingCost returns the shipping charge for a cart subtotal.
func (p Pricing) ShippingCost(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(p.FreeShippingThreshold) {
		return decimal.Zero
	}
	return p.ShippingFlatFee
}

// Tax returns the tax amount for a subtotal, rounded half-up to currency
// precision.
func (p Pricing) Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(p.TaxRatePercent).Div(oneHundred).Round(2)
}

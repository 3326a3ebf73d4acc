package orders

import (
	"github.com/angelmondragon/biowe-backend/internal/promo"
	"github.com/angelmondragon/biowe-backend/pkg/config"
	"github.com/angelmondragon/biowe-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// PricingRules are the shipping tier and tax constants.
type PricingRules struct {
	FreeShippingThreshold decimal.Decimal
	FlatShipping          decimal.Decimal
	TaxRate               decimal.Decimal
}

// DefaultPricingRules: free shipping from 500, otherwise 50, plus 18% tax.
func DefaultPricingRules() PricingRules {
	return PricingRules{
		FreeShippingThreshold: decimal.NewFromInt(500),
		FlatShipping:          decimal.NewFromInt(50),
		TaxRate:               decimal.RequireFromString("0.18"),
	}
}

// RulesFromConfig converts the env driven pricing section.
func RulesFromConfig(cfg config.PricingConfig) PricingRules {
	return PricingRules{
		FreeShippingThreshold: decimalOf(cfg.FreeShippingThreshold),
		FlatShipping:          decimalOf(cfg.FlatShipping),
		TaxRate:               decimalOf(cfg.TaxRate),
	}
}

// PricedLine is a resolved cart line: the current catalog price and a quantity.
type PricedLine struct {
	Price    float64
	Quantity int
}

// Pricer computes order summaries. It is pure and safe for concurrent use.
type Pricer struct {
	rules PricingRules
}

func NewPricer(rules PricingRules) *Pricer {
	return &Pricer{rules: rules}
}

// LineSubtotal is price times quantity, rounded to cents.
func LineSubtotal(line PricedLine) float64 {
	return lineAmount(line).InexactFloat64()
}

// Price totals the lines and applies the discount, shipping tier and tax.
// Fixed discounts are not capped at the subtotal, so the taxable base and
// the tax can go negative.
func (p *Pricer) Price(lines []PricedLine, discount *promo.Discount) Summary {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(lineAmount(line))
	}
	subtotal = round2(subtotal)

	discountAmount := decimal.Zero
	discountCode := ""
	if discount != nil {
		amount := decimalOf(discount.Amount)
		switch discount.DiscountType {
		case enums.DiscountTypePercentage:
			discountAmount = round2(subtotal.Mul(amount).Div(decimal.NewFromInt(100)))
		case enums.DiscountTypeFixed:
			discountAmount = round2(amount)
		}
		discountCode = discount.Code
	}

	shipping := p.rules.FlatShipping
	if subtotal.GreaterThanOrEqual(p.rules.FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	shipping = round2(shipping)

	tax := round2(subtotal.Sub(discountAmount).Mul(p.rules.TaxRate))
	total := round2(subtotal.Sub(discountAmount).Add(shipping).Add(tax))

	return Summary{
		Subtotal:       subtotal.InexactFloat64(),
		DiscountAmount: discountAmount.InexactFloat64(),
		DiscountCode:   discountCode,
		ShippingCost:   shipping.InexactFloat64(),
		TaxAmount:      tax.InexactFloat64(),
		TotalAmount:    total.InexactFloat64(),
	}
}

func lineAmount(line PricedLine) decimal.Decimal {
	return round2(decimalOf(line.Price).Mul(decimal.NewFromInt(int64(line.Quantity))))
}

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func decimalOf(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

package store

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/simple-shop/internal/pricing"
)

// Lines projects the order's items into pricing inputs, preserving iteration
// order.
func (o Order) Lines() []pricing.LineItem {
	lines := make([]pricing.LineItem, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, pricing.LineItem{Price: it.Price, Currency: it.Currency})
	}
	return lines
}

// DiscountPercent returns the linked discount percentage, zero when none.
func (o Order) DiscountPercent() decimal.Decimal {
	if o.Discount == nil {
		return decimal.Zero
	}
	return o.Discount.Percentage
}

// TaxPercent returns the linked tax percentage, zero when none.
func (o Order) TaxPercent() decimal.Decimal {
	if o.Tax == nil {
		return decimal.Zero
	}
	return o.Tax.Percentage
}

// Breakdown derives the order's amounts from its current state.
func (o Order) Breakdown() pricing.Breakdown {
	return pricing.Compute(o.Lines(), o.DiscountPercent(), o.TaxPercent())
}

// Currency returns the order currency per the first-item rule.
func (o Order) Currency() string {
	return pricing.Currency(o.Lines())
}

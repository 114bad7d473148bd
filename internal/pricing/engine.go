// Package pricing implements pure order amount computation.
//
// Discount applies to the subtotal; tax applies to (subtotal - discount).
// Discount and tax amounts are rounded to two decimal places. Subtotal and
// total are left as raw sums of the already-rounded parts, so the total is
// never re-rounded independently.
package pricing

import "github.com/shopspring/decimal"

// DefaultCurrency is used for orders with no items.
const DefaultCurrency = "usd"

var hundred = decimal.NewFromInt(100)

// LineItem is the slice of item state the engine needs.
type LineItem struct {
	Price    decimal.Decimal
	Currency string
}

// Breakdown aggregates the computed pricing components of an order.
type Breakdown struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
	Currency string
}

// Compute derives the full breakdown for the given items and percentages.
// Percentages are applied as given; values outside [0,100] are not rejected.
func Compute(items []LineItem, discountPct, taxPct decimal.Decimal) Breakdown {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Price)
	}

	discount := decimal.Zero
	if !discountPct.IsZero() {
		discount = subtotal.Mul(discountPct).Div(hundred).Round(2)
	}

	tax := decimal.Zero
	if !taxPct.IsZero() {
		tax = subtotal.Sub(discount).Mul(taxPct).Div(hundred).Round(2)
	}

	return Breakdown{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    subtotal.Sub(discount).Add(tax),
		Currency: Currency(items),
	}
}

// Currency returns the first item's currency, or DefaultCurrency for an empty
// item set. All items in one order are assumed to share a currency; see
// MixedCurrencies for detection.
func Currency(items []LineItem) string {
	if len(items) == 0 {
		return DefaultCurrency
	}
	return items[0].Currency
}

// MixedCurrencies reports whether the items do not all share one currency.
func MixedCurrencies(items []LineItem) bool {
	for i := 1; i < len(items); i++ {
		if items[i].Currency != items[0].Currency {
			return true
		}
	}
	return false
}

// MinorUnits converts a decimal amount into the gateway's smallest currency
// unit, rounding halves away from zero.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

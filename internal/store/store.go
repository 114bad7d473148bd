package store

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Item represents a purchasable product in the catalog.
type Item struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
}

// Discount is a percentage-off coupon referenced by zero or more orders.
type Discount struct {
	ID         int64           `json:"id"`
	Code       string          `json:"code"`
	Percentage decimal.Decimal `json:"percentage"`
}

// Tax is a named percentage applied after discount.
type Tax struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Percentage decimal.Decimal `json:"percentage"`
}

// Order groups items with an optional discount and tax. Monetary amounts are
// never stored; they are derived from the current item set on every read.
type Order struct {
	ID        int64     `json:"id"`
	Items     []Item    `json:"items"`
	Discount  *Discount `json:"discount,omitempty"`
	Tax       *Tax      `json:"tax,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

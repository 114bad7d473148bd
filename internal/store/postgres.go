package store

import (
	"context"
	"errors"
	"fmt"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	getItemSQL = `SELECT id, name, description, price, currency FROM items WHERE id = $1`

	listItemsSQL = `SELECT id, name, description, price, currency FROM items ORDER BY id`

	getOrderSQL = `SELECT o.id, o.created_at,
		d.id, d.code, d.percentage,
		t.id, t.name, t.percentage
	FROM orders o
	LEFT JOIN discounts d ON d.id = o.discount_id
	LEFT JOIN taxes t ON t.id = o.tax_id
	WHERE o.id = $1`

	listOrderItemsSQL = `SELECT i.id, i.name, i.description, i.price, i.currency
	FROM order_items oi
	JOIN items i ON i.id = oi.item_id
	WHERE oi.order_id = $1
	ORDER BY oi.position, i.id`
)

// NewPool creates a pgxpool.Pool with shopspring/decimal support for NUMERIC
// columns and the provided query tracer.
func NewPool(ctx context.Context, databaseURL, appName string, tracer pgx.QueryTracer) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	if tracer != nil {
		cfg.ConnConfig.Tracer = tracer
	}
	if cfg.ConnConfig.RuntimeParams == nil {
		cfg.ConnConfig.RuntimeParams = map[string]string{}
	}
	cfg.ConnConfig.RuntimeParams["application_name"] = appName
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	return pool, nil
}

// Store provides read access to catalog records.
type Store struct {
	Pool *pgxpool.Pool
}

// GetItem loads a single item by id.
func (s *Store) GetItem(ctx context.Context, id int64) (Item, error) {
	rows, err := s.Pool.Query(ctx, getItemSQL, id)
	if err != nil {
		return Item{}, fmt.Errorf("get item %d: %w", id, err)
	}
	item, err := pgx.CollectExactlyOneRow(rows, scanItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrNotFound
		}
		return Item{}, fmt.Errorf("get item %d: %w", id, err)
	}
	return item, nil
}

// ListItems returns the whole catalog ordered by id.
func (s *Store) ListItems(ctx context.Context) ([]Item, error) {
	rows, err := s.Pool.Query(ctx, listItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return pgx.CollectRows(rows, scanItem)
}

// GetOrder loads an order with its item set and optional discount/tax.
// Item iteration order is the stored position, which drives the
// currency-of-first-item rule.
func (s *Store) GetOrder(ctx context.Context, id int64) (Order, error) {
	var (
		order   Order
		dID     *int64
		dCode   *string
		dPct    *decimal.Decimal
		tID     *int64
		tName   *string
		tPct    *decimal.Decimal
	)
	row := s.Pool.QueryRow(ctx, getOrderSQL, id)
	if err := row.Scan(&order.ID, &order.CreatedAt, &dID, &dCode, &dPct, &tID, &tName, &tPct); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, fmt.Errorf("get order %d: %w", id, err)
	}
	if dID != nil {
		order.Discount = &Discount{ID: *dID, Code: *dCode, Percentage: *dPct}
	}
	if tID != nil {
		order.Tax = &Tax{ID: *tID, Name: *tName, Percentage: *tPct}
	}

	rows, err := s.Pool.Query(ctx, listOrderItemsSQL, id)
	if err != nil {
		return Order{}, fmt.Errorf("list order %d items: %w", id, err)
	}
	items, err := pgx.CollectRows(rows, scanItem)
	if err != nil {
		return Order{}, fmt.Errorf("list order %d items: %w", id, err)
	}
	order.Items = items
	return order, nil
}

func scanItem(row pgx.CollectableRow) (Item, error) {
	var it Item
	err := row.Scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.Currency)
	return it, err
}

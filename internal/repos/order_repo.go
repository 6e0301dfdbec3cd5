package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// Create writes the order header and its items in one transaction and returns the new id.
// Product references are stored as given; checking them is the caller's job.
func (r *OrderRepo) Create(ctx context.Context, userID string, items []domain.OrderItem, total float64) (string, error) {
	id, err := newID()
	if err != nil {
		return "", fmt.Errorf("generate order id: %w: %w", domain.ErrPersistence, err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin order insert: %w: %w", domain.ErrPersistence, err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO orders(id, user_id, total) VALUES (?, ?, ?)`), id, userID, total)
	if err != nil {
		return "", fmt.Errorf("insert order: %w: %w", domain.ErrPersistence, err)
	}
	if n, err := res.RowsAffected(); err != nil || n != 1 {
		return "", fmt.Errorf("insert order: %w: no row stored", domain.ErrPersistence)
	}
	for i, it := range items {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO order_items(order_id, position, product_id, qty)
			VALUES (?, ?, ?, ?)
		`), id, i, it.ProductID, it.Qty); err != nil {
			return "", fmt.Errorf("insert order item: %w: %w", domain.ErrPersistence, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit order: %w: %w", domain.ErrPersistence, err)
	}
	return id, nil
}

type orderItemRow struct {
	OrderID   string `db:"order_id"`
	ProductID string `db:"product_id"`
	Qty       int    `db:"qty"`
}

// ListByUser returns one page of the user's orders ordered by id, each with its stored items,
// plus the user's total order count.
func (r *OrderRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Order, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM orders WHERE user_id = ?`), userID); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w: %w", domain.ErrPersistence, err)
	}

	orders := []domain.Order{}
	if err := r.db.SelectContext(ctx, &orders, r.db.Rebind(`
		SELECT id, user_id, total
		FROM orders
		WHERE user_id = ?
		ORDER BY id
		LIMIT ? OFFSET ?
	`), userID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("list orders: %w: %w", domain.ErrPersistence, err)
	}
	if len(orders) == 0 {
		return orders, total, nil
	}

	ids := make([]string, len(orders))
	byID := make(map[string]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = i
	}
	query, args, err := sqlx.In(`
		SELECT order_id, product_id, qty
		FROM order_items
		WHERE order_id IN (?)
		ORDER BY order_id, position
	`, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("build order items lookup: %w", err)
	}
	var rows []orderItemRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, 0, fmt.Errorf("list order items: %w: %w", domain.ErrPersistence, err)
	}
	for _, row := range rows {
		o := &orders[byID[row.OrderID]]
		o.Items = append(o.Items, domain.OrderItem{ProductID: row.ProductID, Qty: row.Qty})
	}
	return orders, total, nil
}

func (r *OrderRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM orders`); err != nil {
		return 0, fmt.Errorf("count orders: %w: %w", domain.ErrPersistence, err)
	}
	return n, nil
}

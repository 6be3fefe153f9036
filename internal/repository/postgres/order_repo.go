package postgres

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/eshop-ops/retention/internal/model"
)

// OrderRepo implements OrderRepository using PostgreSQL. Every method runs on
// the transaction owned by the purge orchestrator; the repo never begins or
// commits on its own.
type OrderRepo struct{ db *DB }

// NewOrderRepo constructs an order repository.
func NewOrderRepo(db *DB) *OrderRepo { return &OrderRepo{db: db} }

// ListByAccount loads all live orders owned by the account.
func (r *OrderRepo) ListByAccount(ctx context.Context, tx pgx.Tx, accountID uuid.UUID) ([]model.Order, error) {
	const q = `
SELECT id, account_id, order_date, status, total_amount, shipping_address, created_at, updated_at
FROM orders WHERE account_id=$1 ORDER BY order_date ASC`
	rows, err := tx.Query(ctx, q, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Order
	for rows.Next() {
		var o model.Order
		if err = rows.Scan(&o.ID, &o.AccountID, &o.OrderDate, &o.Status,
			&o.TotalAmount, &o.ShippingAddress, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// InsertArchived stages the write-once archived copy of one order.
func (r *OrderRepo) InsertArchived(ctx context.Context, tx pgx.Tx, ao model.ArchivedOrder) error {
	const q = `
INSERT INTO archived_orders
  (id, original_account_id, order_date, status, total_amount, shipping_address, created_at, updated_at, archived_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := tx.Exec(ctx, q, ao.ID, ao.OriginalAccountID, ao.OrderDate, ao.Status,
		ao.TotalAmount, ao.ShippingAddress, ao.CreatedAt, ao.UpdatedAt, ao.ArchivedAt)
	return err
}

// ArchiveLines copies the order's lines into archived_order_lines, preserving
// primary keys. The archived order row must already exist.
func (r *OrderRepo) ArchiveLines(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (int64, error) {
	const q = `
INSERT INTO archived_order_lines (id, archived_order_id, product_ref, quantity, unit_price)
SELECT id, order_id, product_ref, quantity, unit_price
FROM order_lines WHERE order_id=$1`
	tag, err := tx.Exec(ctx, q, orderID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ArchivePayments copies the order's payments into archived_payments,
// preserving primary keys.
func (r *OrderRepo) ArchivePayments(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (int64, error) {
	const q = `
INSERT INTO archived_payments (id, archived_order_id, payment_date, method, status, amount, transaction_ref)
SELECT id, order_id, payment_date, method, status, amount, transaction_ref
FROM payments WHERE order_id=$1`
	tag, err := tx.Exec(ctx, q, orderID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteLines removes the original order lines.
func (r *OrderRepo) DeleteLines(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (int64, error) {
	const q = `DELETE FROM order_lines WHERE order_id=$1`
	tag, err := tx.Exec(ctx, q, orderID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeletePayments removes the original payments.
func (r *OrderRepo) DeletePayments(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (int64, error) {
	const q = `DELETE FROM payments WHERE order_id=$1`
	tag, err := tx.Exec(ctx, q, orderID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Delete removes the original order row. Lines and payments must already be
// gone; the FK constraints enforce the ordering.
func (r *OrderRepo) Delete(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) error {
	const q = `DELETE FROM orders WHERE id=$1`
	_, err := tx.Exec(ctx, q, orderID)
	return err
}

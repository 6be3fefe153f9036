package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/eshop-ops/retention/internal/model"
)

// OrderRepository exposes the order-side operations of the retention
// transform. All methods run inside the caller's transaction: archived child
// rows must be staged before the parent order row is deleted, and none of it
// may persist unless the whole account purge commits.
type OrderRepository interface {
	// ListByAccount loads all live orders owned by the account.
	ListByAccount(ctx context.Context, tx pgx.Tx, accountID uuid.UUID) ([]model.Order, error)
	// InsertArchived stages the write-once copy of one order.
	InsertArchived(ctx context.Context, tx pgx.Tx, ao model.ArchivedOrder) error
	// ArchiveLines copies the order's lines into archived_order_lines,
	// preserving primary keys. Returns the number of lines copied.
	ArchiveLines(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (int64, error)
	// ArchivePayments copies the order's payments into archived_payments,
	// preserving primary keys. Returns the number of payments copied.
	ArchivePayments(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (int64, error)
	// DeleteLines removes the original order lines.
	DeleteLines(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (int64, error)
	// DeletePayments removes the original payments.
	DeletePayments(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (int64, error)
	// Delete removes the original order row.
	Delete(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) error
}

// CartRepository provides cart mutations used by the purge.
type CartRepository interface {
	// DeleteByAccount hard-deletes every cart item owned by the account.
	// Cart contents have no archival requirement.
	DeleteByAccount(ctx context.Context, tx pgx.Tx, accountID uuid.UUID) (int64, error)
}

// DeletionLogRepository appends to the immutable deletion log. Entries are
// never updated or deleted.
type DeletionLogRepository interface {
	// Append writes the proof-of-deletion record inside the purge transaction.
	Append(ctx context.Context, tx pgx.Tx, entry model.DeletionLogEntry) error
}

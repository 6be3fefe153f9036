package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/eshop-ops/retention/internal/model"
)

// DeletionLogRepo implements DeletionLogRepository using PostgreSQL.
// The table is append-only; no update or delete statements exist.
type DeletionLogRepo struct{ db *DB }

// NewDeletionLogRepo constructs a deletion log repository.
func NewDeletionLogRepo(db *DB) *DeletionLogRepo { return &DeletionLogRepo{db: db} }

// Append writes one proof-of-deletion record inside the purge transaction.
func (r *DeletionLogRepo) Append(ctx context.Context, tx pgx.Tx, entry model.DeletionLogEntry) error {
	const q = `INSERT INTO deletion_log (account_id, deleted_at) VALUES ($1,$2)`
	_, err := tx.Exec(ctx, q, entry.AccountID, entry.DeletedAt)
	return err
}

package postgres

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// CartRepo implements CartRepository using PostgreSQL.
type CartRepo struct{ db *DB }

// NewCartRepo constructs a cart repository.
func NewCartRepo(db *DB) *CartRepo { return &CartRepo{db: db} }

// DeleteByAccount hard-deletes every cart item owned by the account.
func (r *CartRepo) DeleteByAccount(ctx context.Context, tx pgx.Tx, accountID uuid.UUID) (int64, error) {
	const q = `DELETE FROM cart_items WHERE account_id=$1`
	tag, err := tx.Exec(ctx, q, accountID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/eshop-ops/retention/internal/errs"
	"github.com/eshop-ops/retention/internal/model"
)

// AccountRepo implements AccountRepository using PostgreSQL.
type AccountRepo struct{ db *DB }

// NewAccountRepo constructs an account repository.
func NewAccountRepo(db *DB) *AccountRepo { return &AccountRepo{db: db} }

// Create inserts a new account row.
func (r *AccountRepo) Create(ctx context.Context, a *model.Account) error {
	const q = `
INSERT INTO accounts (id, full_name, email, password_hash, password_salt, role)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Pool.Exec(ctx, q, a.ID, a.FullName, a.Email, a.PasswordHash, a.PasswordSalt, a.Role)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// GetByID selects an account by ID.
func (r *AccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	const q = `
SELECT id, full_name, email, password_hash, password_salt, role, created_at, updated_at, last_login_at
FROM accounts WHERE id=$1`
	return r.scanOne(r.db.Pool.QueryRow(ctx, q, id))
}

// GetByEmail selects an account by email.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	const q = `
SELECT id, full_name, email, password_hash, password_salt, role, created_at, updated_at, last_login_at
FROM accounts WHERE email=$1`
	return r.scanOne(r.db.Pool.QueryRow(ctx, q, email))
}

func (r *AccountRepo) scanOne(row pgx.Row) (*model.Account, error) {
	var a model.Account
	err := row.Scan(&a.ID, &a.FullName, &a.Email, &a.PasswordHash, &a.PasswordSalt,
		&a.Role, &a.CreatedAt, &a.UpdatedAt, &a.LastLoginAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListInactive returns non-admin accounts with last_login_at absent or
// strictly before cutoff. An account whose last login equals the cutoff
// instant is not eligible.
func (r *AccountRepo) ListInactive(ctx context.Context, cutoff time.Time) ([]model.Account, error) {
	const q = `
SELECT id, full_name, email, role, created_at, updated_at, last_login_at
FROM accounts
WHERE role <> 'admin' AND (last_login_at IS NULL OR last_login_at < $1)
ORDER BY created_at ASC`
	rows, err := r.db.Pool.Query(ctx, q, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Account
	for rows.Next() {
		var a model.Account
		if err = rows.Scan(&a.ID, &a.FullName, &a.Email, &a.Role,
			&a.CreatedAt, &a.UpdatedAt, &a.LastLoginAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// TouchLastLogin records a successful authentication timestamp.
func (r *AccountRepo) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	const q = `UPDATE accounts SET last_login_at=$2, updated_at=now() WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// DeleteTx removes the account row inside the caller's transaction.
func (r *AccountRepo) DeleteTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	const q = `DELETE FROM accounts WHERE id=$1`
	tag, err := tx.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// deleted by a concurrent actor; caller rolls back the transaction
		return errs.ErrNotFound
	}
	return nil
}

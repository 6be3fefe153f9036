// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/eshop-ops/retention/internal/model"
)

// TxStarter opens store transactions. It is implemented by *pgxpool.Pool and
// pgxmock.PgxPoolIface; the purge orchestrator owns the transaction it starts
// for the full duration of one account's purge.
type TxStarter interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// AccountRepository provides CRUD access for accounts and the eligibility query.
type AccountRepository interface {
	// Create inserts a new account.
	Create(ctx context.Context, a *model.Account) error
	// GetByID loads an account by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	// GetByEmail loads an account by email, including credential columns.
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	// ListInactive returns non-admin accounts whose last login is absent or
	// strictly before cutoff. Read-only; credential columns are not loaded.
	ListInactive(ctx context.Context, cutoff time.Time) ([]model.Account, error)
	// TouchLastLogin records a successful authentication.
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	// DeleteTx removes the account row inside the caller's transaction.
	// Returns errs.ErrNotFound when no row was deleted.
	DeleteTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Account roles.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Account is a platform account. LastLoginAt is nil for accounts that never
// authenticated; it is updated on every successful login and drives purge
// eligibility.
type Account struct {
	ID           uuid.UUID // PK
	FullName     string
	Email        string // unique
	PasswordHash []byte // Argon2id(password, PasswordSalt)
	PasswordSalt []byte // per-account salt
	Role         string // "customer" or "admin"; admins are never purged
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time // nil = never logged in
}

// Order is a live order owned by exactly one account. Purge replaces it with
// an ArchivedOrder and removes the row.
type Order struct {
	ID              uuid.UUID // PK
	AccountID       uuid.UUID // FK -> accounts.id
	OrderDate       time.Time
	Status          string
	TotalAmount     decimal.Decimal
	ShippingAddress string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ArchivedOrder is the write-once shadow of a purged Order. It keeps the
// original primary key for traceability; OriginalAccountID is recorded but is
// not a live foreign key, and the shipping address is redacted.
type ArchivedOrder struct {
	ID                uuid.UUID // same PK as the original order
	OriginalAccountID uuid.UUID
	OrderDate         time.Time
	Status            string
	TotalAmount       decimal.Decimal
	ShippingAddress   string // redaction sentinel
	CreatedAt         time.Time
	UpdatedAt         time.Time
	ArchivedAt        time.Time
}

// DeletionLogEntry is an immutable proof-of-deletion record, appended exactly
// once per successfully purged account in the same transaction as the purge.
type DeletionLogEntry struct {
	ID        int64 // PK, bigserial
	AccountID uuid.UUID
	DeletedAt time.Time
}

// Tokens collects issued access tokens.
type Tokens struct {
	AccessToken string
	ExpiresAt   time.Time // access token expiry (for diagnostics)
}

// TransformResult reports how many rows the retention transform touched for
// one account.
type TransformResult struct {
	OrdersArchived   int64
	LinesArchived    int64
	PaymentsArchived int64
	CartItemsDeleted int64
}

// PurgeError describes one account that failed to purge; the batch continues
// past it.
type PurgeError struct {
	AccountID uuid.UUID `json:"account_id"`
	Email     string    `json:"email"`
	Err       string    `json:"error"`
}

// PurgeReport aggregates one batch run. Processed counts only fully committed
// purges; a commit failure lands in Errors.
type PurgeReport struct {
	Eligible  int
	Processed int
	Errors    []PurgeError
}

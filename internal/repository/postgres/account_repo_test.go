package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/eshop-ops/retention/internal/errs"
	"github.com/eshop-ops/retention/internal/model"
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

const accountCols = `SELECT id, full_name, email, password_hash, password_salt, role, created_at, updated_at, last_login_at`

func TestAccountRepo_Create_OK_and_UniqueViolation(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewAccountRepo(db)
	ctx := context.Background()
	a := &model.Account{
		ID:           uuid.Must(uuid.NewV4()),
		FullName:     "Jane Doe",
		Email:        "jane@example.com",
		PasswordHash: []byte("h"),
		PasswordSalt: []byte("s"),
		Role:         model.RoleCustomer,
	}

	// OK
	mock.ExpectExec(`INSERT INTO accounts \(id, full_name, email, password_hash, password_salt, role\)`).
		WithArgs(a.ID, a.FullName, a.Email, a.PasswordHash, a.PasswordSalt, a.Role).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, r.Create(ctx, a))

	// Unique violation on email
	mock.ExpectExec(`INSERT INTO accounts \(id, full_name, email, password_hash, password_salt, role\)`).
		WithArgs(a.ID, a.FullName, a.Email, a.PasswordHash, a.PasswordSalt, a.Role).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	err := r.Create(ctx, a)
	require.ErrorIs(t, err, errs.ErrAlreadyExists)
}

func TestAccountRepo_GetByID(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewAccountRepo(db)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())
	now := time.Now()

	mock.ExpectQuery(accountCols+` FROM accounts WHERE id=\$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "full_name", "email", "password_hash", "password_salt", "role", "created_at", "updated_at", "last_login_at"}).
			AddRow(id, "Jane Doe", "jane@example.com", []byte("h"), []byte("s"), model.RoleCustomer, now, now, nil))
	a, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, id, a.ID)
	require.Nil(t, a.LastLoginAt)

	mock.ExpectQuery(accountCols+` FROM accounts WHERE id=\$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByID(ctx, id)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestAccountRepo_GetByEmail(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewAccountRepo(db)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())
	now := time.Now()
	lastLogin := now.Add(-time.Hour)

	mock.ExpectQuery(accountCols+` FROM accounts WHERE email=\$1`).
		WithArgs("jane@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "full_name", "email", "password_hash", "password_salt", "role", "created_at", "updated_at", "last_login_at"}).
			AddRow(id, "Jane Doe", "jane@example.com", []byte("h"), []byte("s"), model.RoleCustomer, now, now, &lastLogin))
	a, err := r.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	require.Equal(t, "jane@example.com", a.Email)
	require.NotNil(t, a.LastLoginAt)

	mock.ExpectQuery(accountCols+` FROM accounts WHERE email=\$1`).
		WithArgs("nobody@example.com").
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestAccountRepo_ListInactive(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewAccountRepo(db)
	ctx := context.Background()
	cutoff := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now()
	id1 := uuid.Must(uuid.NewV4())
	id2 := uuid.Must(uuid.NewV4())
	old := cutoff.Add(-time.Hour)

	// never-logged-in account and a stale one; no credential columns leave
	// the store
	mock.ExpectQuery(`SELECT id, full_name, email, role, created_at, updated_at, last_login_at FROM accounts WHERE role <> 'admin' AND \(last_login_at IS NULL OR last_login_at < \$1\) ORDER BY created_at ASC`).
		WithArgs(cutoff).
		WillReturnRows(pgxmock.NewRows([]string{"id", "full_name", "email", "role", "created_at", "updated_at", "last_login_at"}).
			AddRow(id1, "Ghost One", "g1@example.com", model.RoleCustomer, now, now, nil).
			AddRow(id2, "Ghost Two", "g2@example.com", model.RoleCustomer, now, now, &old))

	out, err := r.ListInactive(ctx, cutoff)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, id1, out[0].ID)
	require.Nil(t, out[0].LastLoginAt)
	require.Equal(t, id2, out[1].ID)
}

func TestAccountRepo_TouchLastLogin(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewAccountRepo(db)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())
	at := time.Now()

	mock.ExpectExec(`UPDATE accounts SET last_login_at=\$2, updated_at=now\(\) WHERE id=\$1`).
		WithArgs(id, at).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, r.TouchLastLogin(ctx, id, at))

	mock.ExpectExec(`UPDATE accounts SET last_login_at=\$2, updated_at=now\(\) WHERE id=\$1`).
		WithArgs(id, at).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	err := r.TouchLastLogin(ctx, id, at)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestAccountRepo_DeleteTx(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewAccountRepo(db)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM accounts WHERE id=\$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	tx, err := mock.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, r.DeleteTx(ctx, tx, id))

	// already gone
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM accounts WHERE id=\$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	tx, err = mock.Begin(ctx)
	require.NoError(t, err)
	require.ErrorIs(t, r.DeleteTx(ctx, tx, id), errs.ErrNotFound)
}

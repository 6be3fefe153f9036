package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/eshop-ops/retention/internal/model"
)

func beginTx(t *testing.T, mock pgxmock.PgxPoolIface) pgx.Tx {
	t.Helper()
	mock.ExpectBegin()
	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)
	return tx
}

func TestOrderRepo_ListByAccount(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewOrderRepo(db)
	ctx := context.Background()
	accID := uuid.Must(uuid.NewV4())
	ordID := uuid.Must(uuid.NewV4())
	now := time.Now()

	tx := beginTx(t, mock)
	mock.ExpectQuery(`SELECT id, account_id, order_date, status, total_amount, shipping_address, created_at, updated_at FROM orders WHERE account_id=\$1 ORDER BY order_date ASC`).
		WithArgs(accID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "account_id", "order_date", "status", "total_amount", "shipping_address", "created_at", "updated_at"}).
			AddRow(ordID, accID, now, "delivered", decimal.NewFromFloat(99.90), "12 Rue de la Paix, Paris", now, now))

	out, err := r.ListByAccount(ctx, tx, accID)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, ordID, out[0].ID)
	require.True(t, out[0].TotalAmount.Equal(decimal.NewFromFloat(99.90)))
}

func TestOrderRepo_InsertArchived(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewOrderRepo(db)
	ctx := context.Background()
	now := time.Now()
	ao := model.ArchivedOrder{
		ID:                uuid.Must(uuid.NewV4()),
		OriginalAccountID: uuid.Must(uuid.NewV4()),
		OrderDate:         now,
		Status:            "delivered",
		TotalAmount:       decimal.NewFromFloat(42.50),
		ShippingAddress:   "Anonymized Address",
		CreatedAt:         now,
		UpdatedAt:         now,
		ArchivedAt:        now,
	}

	tx := beginTx(t, mock)
	mock.ExpectExec(`INSERT INTO archived_orders`).
		WithArgs(ao.ID, ao.OriginalAccountID, ao.OrderDate, ao.Status,
			ao.TotalAmount, ao.ShippingAddress, ao.CreatedAt, ao.UpdatedAt, ao.ArchivedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, r.InsertArchived(ctx, tx, ao))
}

func TestOrderRepo_ArchiveChildren_ReturnsCounts(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewOrderRepo(db)
	ctx := context.Background()
	ordID := uuid.Must(uuid.NewV4())

	tx := beginTx(t, mock)
	mock.ExpectExec(`INSERT INTO archived_order_lines .+ FROM order_lines WHERE order_id=\$1`).
		WithArgs(ordID).
		WillReturnResult(pgxmock.NewResult("INSERT", 3))
	n, err := r.ArchiveLines(ctx, tx, ordID)
	require.NoError(t, err)
	require.EqualValues(t, 3, n)

	mock.ExpectExec(`INSERT INTO archived_payments .+ FROM payments WHERE order_id=\$1`).
		WithArgs(ordID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	n, err = r.ArchivePayments(ctx, tx, ordID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestOrderRepo_DeleteOriginals(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewOrderRepo(db)
	ctx := context.Background()
	ordID := uuid.Must(uuid.NewV4())

	tx := beginTx(t, mock)
	mock.ExpectExec(`DELETE FROM order_lines WHERE order_id=\$1`).
		WithArgs(ordID).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	n, err := r.DeleteLines(ctx, tx, ordID)
	require.NoError(t, err)
	require.EqualValues(t, 3, n)

	mock.ExpectExec(`DELETE FROM payments WHERE order_id=\$1`).
		WithArgs(ordID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	n, err = r.DeletePayments(ctx, tx, ordID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	mock.ExpectExec(`DELETE FROM orders WHERE id=\$1`).
		WithArgs(ordID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, r.Delete(ctx, tx, ordID))
}

func TestCartRepo_DeleteByAccount(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewCartRepo(db)
	ctx := context.Background()
	accID := uuid.Must(uuid.NewV4())

	tx := beginTx(t, mock)
	mock.ExpectExec(`DELETE FROM cart_items WHERE account_id=\$1`).
		WithArgs(accID).
		WillReturnResult(pgxmock.NewResult("DELETE", 4))
	n, err := r.DeleteByAccount(ctx, tx, accID)
	require.NoError(t, err)
	require.EqualValues(t, 4, n)
}

func TestDeletionLogRepo_Append(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewDeletionLogRepo(db)
	ctx := context.Background()
	entry := model.DeletionLogEntry{
		AccountID: uuid.Must(uuid.NewV4()),
		DeletedAt: time.Now(),
	}

	tx := beginTx(t, mock)
	mock.ExpectExec(`INSERT INTO deletion_log \(account_id, deleted_at\) VALUES \(\$1,\$2\)`).
		WithArgs(entry.AccountID, entry.DeletedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, r.Append(ctx, tx, entry))
}

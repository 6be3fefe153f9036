// Package service contains application services for account retention and authentication.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/eshop-ops/retention/internal/errs"
	"github.com/eshop-ops/retention/internal/model"
	"github.com/eshop-ops/retention/internal/repository"
)

// DefaultThreshold is the inactivity duration after which an account becomes
// eligible for purge.
const DefaultThreshold = 365 * 24 * time.Hour

// AnonymizedAddress replaces the shipping address on archived orders.
const AnonymizedAddress = "Anonymized Address"

// PurgeService drives the account data lifecycle: find inactive accounts,
// archive their orders, delete cart contents, log the erasure, delete the
// account.
type PurgeService interface {
	// PurgeAccount runs the full lifecycle transition for one account in a
	// single transaction. Purging an unknown or already-purged account
	// returns errs.ErrNotFound without opening a transaction.
	PurgeAccount(ctx context.Context, id uuid.UUID) error
	// Run purges every account inactive longer than threshold. Per-account
	// failures are collected in the report; only a batch-level failure
	// (listing eligible accounts) is returned as an error.
	Run(ctx context.Context, threshold time.Duration) (model.PurgeReport, error)
}

type PurgeServiceImpl struct {
	store    repository.TxStarter
	accounts repository.AccountRepository
	orders   repository.OrderRepository
	carts    repository.CartRepository
	audit    repository.DeletionLogRepository
	log      *zap.Logger
	now      func() time.Time
}

// NewPurgeService constructs PurgeService with required dependencies.
func NewPurgeService(
	store repository.TxStarter,
	accounts repository.AccountRepository,
	orders repository.OrderRepository,
	carts repository.CartRepository,
	audit repository.DeletionLogRepository,
	log *zap.Logger,
) *PurgeServiceImpl {
	return &PurgeServiceImpl{
		store:    store,
		accounts: accounts,
		orders:   orders,
		carts:    carts,
		audit:    audit,
		log:      log,
		now:      time.Now,
	}
}

// Run fetches the eligible accounts once (a snapshot) and purges them
// sequentially. One bad account never aborts the batch.
func (s *PurgeServiceImpl) Run(ctx context.Context, threshold time.Duration) (model.PurgeReport, error) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	cutoff := s.now().Add(-threshold)

	accounts, err := s.accounts.ListInactive(ctx, cutoff)
	if err != nil {
		return model.PurgeReport{}, fmt.Errorf("list inactive accounts: %w", err)
	}
	report := model.PurgeReport{Eligible: len(accounts)}
	if len(accounts) == 0 {
		s.log.Info("no inactive accounts to purge", zap.Time("cutoff", cutoff))
		return report, nil
	}

	s.log.Info("purge batch started",
		zap.Time("cutoff", cutoff),
		zap.Int("eligible", len(accounts)))

	for i := range accounts {
		a := &accounts[i]
		if err := s.purgeOne(ctx, a.ID); err != nil {
			s.log.Error("purge account failed",
				zap.String("account_id", a.ID.String()),
				zap.String("email", a.Email),
				zap.Error(err))
			report.Errors = append(report.Errors, model.PurgeError{
				AccountID: a.ID, Email: a.Email, Err: err.Error(),
			})
			continue
		}
		report.Processed++
		s.log.Info("account purged", zap.String("account_id", a.ID.String()))
	}

	s.log.Info("purge batch finished",
		zap.Int("eligible", report.Eligible),
		zap.Int("processed", report.Processed),
		zap.Int("errors", len(report.Errors)))
	return report, nil
}

// PurgeAccount purges a single account by ID. Admin accounts are refused
// before any transaction opens; ListInactive never returns them, but this
// entry point takes an arbitrary ID.
func (s *PurgeServiceImpl) PurgeAccount(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("validation: empty account id")
	}
	a, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.Role == model.RoleAdmin {
		return fmt.Errorf("%w: %s", errs.ErrAdminAccount, id)
	}
	return s.purgeOne(ctx, id)
}

// purgeOne owns the transaction for one account's lifecycle transition:
// begin -> retention transform -> deletion log -> delete account -> commit.
// Any step failure rolls back the whole transaction for this account only.
func (s *PurgeServiceImpl) purgeOne(ctx context.Context, id uuid.UUID) error {
	tx, err := s.store.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	if _, err := s.transform(ctx, tx, id); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("%w: %v", errs.ErrTransformFailed, err)
	}

	entry := model.DeletionLogEntry{AccountID: id, DeletedAt: s.now()}
	if err := s.audit.Append(ctx, tx, entry); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("%w: %v", errs.ErrAuditLogFailed, err)
	}

	if err := s.accounts.DeleteTx(ctx, tx, id); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("delete account: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrCommitFailed, err)
	}
	return nil
}

// transform performs the per-account data rewrite inside the caller's
// transaction. Archived children are staged before their parent order row is
// deleted so the archived foreign references always have a target.
func (s *PurgeServiceImpl) transform(ctx context.Context, tx pgx.Tx, accountID uuid.UUID) (model.TransformResult, error) {
	var res model.TransformResult

	orders, err := s.orders.ListByAccount(ctx, tx, accountID)
	if err != nil {
		return res, fmt.Errorf("list orders: %w", err)
	}

	archivedAt := s.now()
	for _, o := range orders {
		ao := model.ArchivedOrder{
			ID:                o.ID,
			OriginalAccountID: o.AccountID,
			OrderDate:         o.OrderDate,
			Status:            o.Status,
			TotalAmount:       o.TotalAmount,
			ShippingAddress:   AnonymizedAddress,
			CreatedAt:         o.CreatedAt,
			UpdatedAt:         o.UpdatedAt,
			ArchivedAt:        archivedAt,
		}
		if err := s.orders.InsertArchived(ctx, tx, ao); err != nil {
			return res, fmt.Errorf("archive order %s: %w", o.ID, err)
		}
		n, err := s.orders.ArchiveLines(ctx, tx, o.ID)
		if err != nil {
			return res, fmt.Errorf("archive lines of order %s: %w", o.ID, err)
		}
		res.LinesArchived += n
		n, err = s.orders.ArchivePayments(ctx, tx, o.ID)
		if err != nil {
			return res, fmt.Errorf("archive payments of order %s: %w", o.ID, err)
		}
		res.PaymentsArchived += n

		if _, err = s.orders.DeleteLines(ctx, tx, o.ID); err != nil {
			return res, fmt.Errorf("delete lines of order %s: %w", o.ID, err)
		}
		if _, err = s.orders.DeletePayments(ctx, tx, o.ID); err != nil {
			return res, fmt.Errorf("delete payments of order %s: %w", o.ID, err)
		}
		if err = s.orders.Delete(ctx, tx, o.ID); err != nil {
			return res, fmt.Errorf("delete order %s: %w", o.ID, err)
		}
		res.OrdersArchived++
	}

	res.CartItemsDeleted, err = s.carts.DeleteByAccount(ctx, tx, accountID)
	if err != nil {
		return res, fmt.Errorf("delete cart items: %w", err)
	}
	return res, nil
}

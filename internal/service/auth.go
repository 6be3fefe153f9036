package service

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"

	pkgcrypto "github.com/eshop-ops/retention/internal/crypto"
	"github.com/eshop-ops/retention/internal/errs"
	"github.com/eshop-ops/retention/internal/limiter"
	"github.com/eshop-ops/retention/internal/model"
	"github.com/eshop-ops/retention/internal/repository"
)

// AuthService defines account registration and authentication operations.
type AuthService interface {
	// Register creates a new customer account with secure password hashing.
	Register(ctx context.Context, fullName, email, password string) (accountID string, err error)
	// LoginWithIP applies rate-limiting, authenticates the account, records
	// the login time, and issues an access token.
	LoginWithIP(ctx context.Context, email, password, ip string) (model.Tokens, model.Account, error)
}

type AuthServiceImpl struct {
	accounts  repository.AccountRepository
	signKey   []byte
	accessTTL time.Duration
	lim       limiter.Limiter
	now       func() time.Time
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(accounts repository.AccountRepository, signKey []byte, accessTTL time.Duration, lim limiter.Limiter) *AuthServiceImpl {
	return &AuthServiceImpl{accounts: accounts, signKey: signKey, accessTTL: accessTTL, lim: lim, now: time.Now}
}

// Register creates a new customer account with a per-account salt.
func (s *AuthServiceImpl) Register(ctx context.Context, fullName, email, password string) (string, error) {
	if fullName == "" || email == "" || password == "" {
		return "", errors.New("empty full name/email/password")
	}
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	salt, err := pkgcrypto.NewSalt()
	if err != nil {
		return "", err
	}
	a := &model.Account{
		ID:           id,
		FullName:     fullName,
		Email:        email,
		PasswordHash: pkgcrypto.HashPassword(password, salt),
		PasswordSalt: salt,
		Role:         model.RoleCustomer,
	}
	if err := s.accounts.Create(ctx, a); err != nil {
		return "", err
	}
	return id.String(), nil
}

// LoginWithIP authenticates with rate limiting by (email, ip). A successful
// login updates last_login_at, which is the activity signal the purge
// eligibility query reads.
func (s *AuthServiceImpl) LoginWithIP(ctx context.Context, email, password, ip string) (model.Tokens, model.Account, error) {
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, email, ipHash)
	if err != nil {
		return model.Tokens{}, model.Account{}, err
	}
	if !allowed {
		return model.Tokens{}, model.Account{}, errs.ErrRateLimited
	}

	a, err := s.accounts.GetByEmail(ctx, email)
	if err != nil || !pkgcrypto.VerifyPassword(password, a.PasswordSalt, a.PasswordHash) {
		if blocked, _, ferr := s.lim.Failure(ctx, email, ipHash); ferr == nil && blocked {
			return model.Tokens{}, model.Account{}, errs.ErrRateLimited
		}
		// hide account existence on wrong password or lookup failure
		return model.Tokens{}, model.Account{}, errs.ErrUnauthorized
	}

	// Success: reset counters (best-effort).
	_ = s.lim.Success(ctx, email, ipHash)

	loginAt := s.now()
	if err := s.accounts.TouchLastLogin(ctx, a.ID, loginAt); err != nil {
		return model.Tokens{}, model.Account{}, err
	}
	a.LastLoginAt = &loginAt

	access, exp, err := NewAccessToken(s.signKey, a.ID, a.Role, s.accessTTL)
	if err != nil {
		return model.Tokens{}, model.Account{}, err
	}
	return model.Tokens{AccessToken: access, ExpiresAt: exp}, *a, nil
}

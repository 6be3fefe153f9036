package service

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/eshop-ops/retention/internal/errs"
)

// AccessClaims is the JWT payload issued on login. Role is carried so the
// transport layer can gate administrative operations without a store lookup.
type AccessClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// NewAccessToken creates a signed HS256 JWT for the given account.
func NewAccessToken(key []byte, accountID uuid.UUID, role string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Role: role,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(key)
	return signed, exp, err
}

// ParseAccessToken validates a signed token and returns its claims.
// Any validation failure maps to errs.ErrUnauthorized.
func ParseAccessToken(token string, key []byte) (*AccessClaims, error) {
	var claims AccessClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil || !parsed.Valid {
		return nil, errs.ErrUnauthorized
	}
	if _, err := uuid.FromString(claims.Subject); err != nil {
		return nil, errs.ErrUnauthorized
	}
	return &claims, nil
}

package handler

import (
	"net/http"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/eshop-ops/retention/internal/model"
	"github.com/eshop-ops/retention/internal/service"
)

// RequireAuth validates the Bearer access token and stores the caller
// identity in the request context.
func RequireAuth(signKey []byte) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authz, "Bearer ")
			if !ok || token == "" {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			claims, err := service.ParseAccessToken(token, signKey)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			accountID, err := uuid.FromString(claims.Subject)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			ctx := WithIdentity(r.Context(), Identity{AccountID: accountID, Role: claims.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects callers whose token does not carry the admin role.
// Must run after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromCtx(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if id.Role != model.RoleAdmin {
			writeError(w, http.StatusForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"prd-generator/internal/model"
)

type accessResolver interface {
	Resolve(ctx context.Context, tokenString string) (model.ResolvedAccess, error)
}

type contextKey string

const accountContextKey contextKey = "account"

// AuthMiddleware provides the three composable authorization gates.
// They must be chained in order: RequireAuth, then RequireActive, then
// RequirePrivileged. An inactive caller on a privileged route gets the
// inactive-account failure, never the privilege one.
type AuthMiddleware struct {
	resolver accessResolver
}

func NewAuthMiddleware(resolver accessResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// RequireAuth resolves the bearer token and stores the account in the
// request context. Anonymous and unknown-subject resolutions both fail
// with the same 401; the client learns nothing about why.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		access, err := m.resolver.Resolve(r.Context(), bearerToken(r))
		if err != nil {
			writeGateError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "unexpected server error")
			return
		}

		if access.State != model.AccessResolved {
			writeGateError(w, http.StatusUnauthorized, "UNAUTHORIZED", "could not validate credentials")
			return
		}

		ctx := context.WithValue(r.Context(), accountContextKey, access.Account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireActive rejects inactive accounts. The 400 mapping matches the
// historical behavior this service replaces.
func (m *AuthMiddleware) RequireActive(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, ok := AccountFromContext(r.Context())
		if !ok {
			writeGateError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}

		if !account.IsActive {
			writeGateError(w, http.StatusBadRequest, "INACTIVE_ACCOUNT", "inactive user")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) RequirePrivileged(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, ok := AccountFromContext(r.Context())
		if !ok {
			writeGateError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}

		if !account.IsSuperuser {
			writeGateError(w, http.StatusForbidden, "FORBIDDEN", "not enough permissions")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func AccountFromContext(ctx context.Context) (model.Account, bool) {
	account, ok := ctx.Value(accountContextKey).(model.Account)
	return account, ok
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

func writeGateError(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    code,
			Message: message,
		},
	})
}

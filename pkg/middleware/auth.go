package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/KartikVerma96/paregrose/pkg/httputil"
	"github.com/KartikVerma96/paregrose/pkg/logger"
)

// SessionCookieName is the HttpOnly cookie carrying the session token.
const SessionCookieName = "session"

type claimsKey struct{}

// Claims are the identity fields extracted from a valid session token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// TokenValidator validates a session token and returns its claims.
type TokenValidator func(ctx context.Context, token string) (*Claims, error)

// TokenFromRequest returns the bearer token from the Authorization header,
// falling back to the session cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// Authenticate rejects requests without a valid session with 401.
func Authenticate(validate TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				httputil.WriteErrorCode(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
				return
			}
			claims, err := validate(r.Context(), token)
			if err != nil {
				httputil.WriteErrorCode(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired session")
				return
			}
			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// OptionalAuth attaches claims when a valid session is present and otherwise
// lets the request through anonymously. Used by guest-capable routes like the cart.
func OptionalAuth(validate TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := TokenFromRequest(r); token != "" {
				if claims, err := validate(r.Context(), token); err == nil {
					r = r.WithContext(withClaims(r.Context(), claims))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole admits authenticated requests whose role satisfies allowed.
// Mount after Authenticate.
func RequireRole(allowed func(role string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				httputil.WriteErrorCode(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
				return
			}
			if !allowed(claims.Role) {
				logger.FromContext(r.Context()).WarnContext(r.Context(), "role check failed",
					slog.String("role", claims.Role),
					slog.String("path", r.URL.Path),
				)
				httputil.WriteErrorCode(w, r, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func withClaims(ctx context.Context, c *Claims) context.Context {
	ctx = context.WithValue(ctx, claimsKey{}, c)
	ctx = logger.WithUserID(ctx, c.UserID)
	return logger.NewContext(ctx, logger.FromContext(ctx).With(slog.String("user_id", c.UserID)))
}

// ClaimsFromContext returns the authenticated claims, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok && c != nil
}

// UserIDFromContext returns the authenticated user ID or "".
func UserIDFromContext(ctx context.Context) string {
	if c, ok := ClaimsFromContext(ctx); ok {
		return c.UserID
	}
	return ""
}

// RoleFromContext returns the authenticated role or "".
func RoleFromContext(ctx context.Context) string {
	if c, ok := ClaimsFromContext(ctx); ok {
		return c.Role
	}
	return ""
}

// ContextWithClaims is exported for handler tests that bypass token validation.
func ContextWithClaims(ctx context.Context, c *Claims) context.Context {
	return withClaims(ctx, c)
}

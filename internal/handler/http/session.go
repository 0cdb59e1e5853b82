package http

import (
	"context"
	"net/http"
	"time"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/pkg/httputil"
	"github.com/KartikVerma96/paregrose/pkg/logger"
	"github.com/KartikVerma96/paregrose/pkg/middleware"
	"github.com/KartikVerma96/paregrose/pkg/validator"
)

// Guest sessions are identified by a client-generated opaque token.
const (
	GuestSessionHeader = "X-Session-ID"
	GuestSessionCookie = "guest_session"
)

type ownerKey struct{}

// guestSessionID returns the guest token from the header or cookie. Invalid
// tokens are ignored.
func guestSessionID(r *http.Request) string {
	id := r.Header.Get(GuestSessionHeader)
	if id == "" {
		if c, err := r.Cookie(GuestSessionCookie); err == nil {
			id = c.Value
		}
	}
	if !validator.ValidSessionID(id) {
		return ""
	}
	return id
}

// guestOwner is the cart owner key of the request's guest session, or "".
func guestOwner(r *http.Request) string {
	if id := guestSessionID(r); id != "" {
		return domain.SessionOwner(id)
	}
	return ""
}

// ResolveOwner picks the cart owner for the request: the signed-in user, or
// else the guest session. Requests with neither are rejected with 400.
// Mount after middleware.OptionalAuth.
func ResolveOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var owner string
		if userID := middleware.UserIDFromContext(ctx); userID != "" {
			owner = domain.UserOwner(userID)
		} else if id := guestSessionID(r); id != "" {
			owner = domain.SessionOwner(id)
			ctx = logger.WithSessionID(ctx, id)
		}
		if owner == "" {
			httputil.WriteErrorCode(w, r, http.StatusBadRequest, "MISSING_SESSION",
				"sign in or send an "+GuestSessionHeader+" header")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, ownerKey{}, owner)))
	})
}

func ownerFromContext(ctx context.Context) string {
	owner, _ := ctx.Value(ownerKey{}).(string)
	return owner
}

// cookieWriter sets and clears the session cookie.
type cookieWriter struct {
	secure bool
}

func (c cookieWriter) setSession(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c cookieWriter) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

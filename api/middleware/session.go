package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/lmarceau/privastore-backend/pkg/logger"
)

const (
	// SessionHeader carries the cart session between the storefront and API.
	SessionHeader = "X-Cart-Session"
	sessionCookie = "cart_session"
)

type sessionCtxKey struct{}

// SessionIDFromContext returns the cart session bound to the request, or ""
// when the request never passed through CartSession.
func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(sessionCtxKey{}).(string); ok {
		return v
	}
	return ""
}

// CartSession resolves the caller's cart session from the X-Cart-Session
// header, then the cart_session cookie, and issues a fresh identifier when
// neither is present. The resolved id is echoed on both so either transport
// keeps working.
func CartSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := r.Header.Get(SessionHeader)
			if sessionID == "" {
				if cookie, err := r.Cookie(sessionCookie); err == nil {
					sessionID = cookie.Value
				}
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
			}

			w.Header().Set(SessionHeader, sessionID)
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    sessionID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := context.WithValue(r.Context(), sessionCtxKey{}, sessionID)
			if logg != nil {
				ctx = logg.WithCartSession(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/auth"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/httpx"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/transport"
)

type userIDKey struct{}

// RoleResolver looks up the stored role of a user. Admin checks go through it
// on every request so a stale or forged role claim is never trusted.
type RoleResolver interface {
	RoleOf(ctx context.Context, userID string) (string, error)
}

func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey{}).(string); ok {
		return v
	}
	return ""
}

// OptionalUser attaches the user id of a valid token and lets anonymous
// requests through.
func OptionalUser(manager *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := httpx.BearerToken(r, auth.CookieName); token != "" && manager != nil {
				if claims, err := manager.Parse(token); err == nil {
					r = r.WithContext(WithUserID(r.Context(), claims.Subject))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequireUser(manager *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := httpx.BearerToken(r, auth.CookieName)
			if token == "" || manager == nil {
				transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}
			claims, err := manager.Parse(token)
			if err != nil {
				transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.Subject)))
		})
	}
}

func RequireAdmin(adminKey string, manager *auth.Manager, roles RoleResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminKey == "" && manager == nil {
				transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
				return
			}

			if key := r.Header.Get("X-Admin-Key"); adminKey != "" && key != "" &&
				subtle.ConstantTimeCompare([]byte(key), []byte(adminKey)) == 1 {
				next.ServeHTTP(w, r)
				return
			}

			if manager != nil && roles != nil {
				if token := httpx.BearerToken(r, auth.CookieName); token != "" {
					claims, err := manager.Parse(token)
					if err == nil {
						role, err := roles.RoleOf(r.Context(), claims.Subject)
						if err == nil && role == "admin" {
							next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.Subject)))
							return
						}
					}
					transport.WriteError(w, http.StatusForbidden, "forbidden", nil)
					return
				}
			}

			transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		})
	}
}

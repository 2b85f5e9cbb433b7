// Package middleware provides HTTP middleware shared across routes.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/wadesk/wadesk/internal/domain/user"
)

type authUserCtxKey struct{}

// TokenValidator validates a JWT access token and returns its claims.
type TokenValidator interface {
	ValidateToken(token string) (*user.TokenClaims, error)
}

// publicPaths are exempt from authentication. The webhook path carries its
// own credential (the agent API token) and is verified by the inbound service.
var publicPaths = map[string]bool{
	"/health":                   true,
	"/api/v1/auth/login":        true,
	"/api/v1/auth/register":     true,
	"/api/v1/webhooks/messages": true,
}

// Auth returns middleware that validates JWT bearer credentials and places
// the authenticated user on the request context.
func Auth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			// WebSocket auth via ?token= query parameter; browsers cannot set
			// headers on WebSocket upgrade requests.
			if r.URL.Path == "/ws" {
				tokenParam := r.URL.Query().Get("token")
				if tokenParam == "" {
					http.Error(w, `{"error":"authorization required"}`, http.StatusUnauthorized)
					return
				}
				claims, err := validator.ValidateToken(tokenParam)
				if err != nil {
					http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
					return
				}
				next.ServeHTTP(w, r.WithContext(withUser(r.Context(), claims)))
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, `{"error":"authorization required"}`, http.StatusUnauthorized)
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == authHeader {
				http.Error(w, `{"error":"invalid authorization header"}`, http.StatusUnauthorized)
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), claims)))
		})
	}
}

func withUser(ctx context.Context, claims *user.TokenClaims) context.Context {
	u := &user.User{
		ID:    claims.UserID,
		OrgID: claims.OrgID,
		Email: claims.Email,
		Name:  claims.Name,
		Role:  claims.Role,
	}
	return context.WithValue(ctx, authUserCtxKey{}, u)
}

// UserFromContext returns the authenticated user from the request context.
func UserFromContext(ctx context.Context) *user.User {
	u, _ := ctx.Value(authUserCtxKey{}).(*user.User)
	return u
}

// WithTestUser injects a user into the context. Exported only for handler tests.
func WithTestUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, authUserCtxKey{}, u)
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/tellergo/teller/internal/domain"
)

// ContextKey is the type for context keys set by this package.
type ContextKey string

const (
	// UserContextKey holds the authenticated *domain.User.
	UserContextKey ContextKey = "user"
	// TokenContextKey holds the raw bearer token, for logout.
	TokenContextKey ContextKey = "token"
)

// SessionValidator resolves a bearer token to the user it belongs to.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*domain.User, error)
}

// Authenticator authenticates requests by session token lookup.
type Authenticator struct {
	sessions SessionValidator
}

// NewAuthenticator creates a new Authenticator.
func NewAuthenticator(sessions SessionValidator) *Authenticator {
	return &Authenticator{sessions: sessions}
}

// Wrap rejects requests without a valid bearer token and stores the
// resolved user on the request context.
func (a *Authenticator) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(w, "invalid authorization header format")
			return
		}

		token := parts[1]

		user, err := a.sessions.Validate(r.Context(), token)
		if err != nil {
			unauthorized(w, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		ctx = context.WithValue(ctx, TokenContextKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects authenticated requests whose user has a different role.
func RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUserFromContext(r.Context())
			if !ok {
				unauthorized(w, "unauthenticated")
				return
			}

			if user.Role != role {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"error":"insufficient permissions"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUserFromContext extracts the authenticated user from context.
func GetUserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*domain.User)
	return user, ok
}

// GetTokenFromContext extracts the bearer token from context.
func GetTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenContextKey).(string)
	return token, ok
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + message + `"}`))
}

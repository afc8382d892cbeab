package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tellergo/teller/internal/domain"
)

type sessionValidatorStub struct {
	validateFn func(ctx context.Context, token string) (*domain.User, error)
}

func (s *sessionValidatorStub) Validate(ctx context.Context, token string) (*domain.User, error) {
	return s.validateFn(ctx, token)
}

func okHandler(t *testing.T, wantUserID string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUserFromContext(r.Context())
		if !ok {
			t.Fatal("expected user on context")
		}
		if user.ID != wantUserID {
			t.Fatalf("expected user %s, got %s", wantUserID, user.ID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticatorWrap(t *testing.T) {
	auth := NewAuthenticator(&sessionValidatorStub{
		validateFn: func(ctx context.Context, token string) (*domain.User, error) {
			if token != "tok-abc" {
				return nil, domain.ErrUnauthenticated
			}
			return &domain.User{ID: "user-1", Role: domain.RoleCustomer}, nil
		},
	})

	tests := []struct {
		name     string
		header   string
		wantCode int
	}{
		{name: "valid token", header: "Bearer tok-abc", wantCode: http.StatusOK},
		{name: "missing header", header: "", wantCode: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic tok-abc", wantCode: http.StatusUnauthorized},
		{name: "malformed header", header: "Bearer", wantCode: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer tok-nope", wantCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			auth.Wrap(okHandler(t, "user-1")).ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAuthenticatorStoresToken(t *testing.T) {
	auth := NewAuthenticator(&sessionValidatorStub{
		validateFn: func(ctx context.Context, token string) (*domain.User, error) {
			return &domain.User{ID: "user-1"}, nil
		},
	})

	var gotToken string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken, _ = GetTokenFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer tok-abc")
	auth.Wrap(next).ServeHTTP(httptest.NewRecorder(), req)

	if gotToken != "tok-abc" {
		t.Fatalf("expected token on context, got %q", gotToken)
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		user     *domain.User
		required domain.Role
		wantCode int
	}{
		{
			name:     "matching role",
			user:     &domain.User{ID: "user-1", Role: domain.RoleCustomer},
			required: domain.RoleCustomer,
			wantCode: http.StatusOK,
		},
		{
			name:     "customer hitting banker route",
			user:     &domain.User{ID: "user-1", Role: domain.RoleCustomer},
			required: domain.RoleBanker,
			wantCode: http.StatusForbidden,
		},
		{
			name:     "banker hitting customer route",
			user:     &domain.User{ID: "banker-1", Role: domain.RoleBanker},
			required: domain.RoleCustomer,
			wantCode: http.StatusForbidden,
		},
		{
			name:     "no user on context",
			user:     nil,
			required: domain.RoleCustomer,
			wantCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.user != nil {
				ctx := context.WithValue(req.Context(), UserContextKey, tt.user)
				req = req.WithContext(ctx)
			}
			rec := httptest.NewRecorder()

			RequireRole(tt.required)(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
		})
	}
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tellergo/teller/internal/adapter/http/dto"
	"github.com/tellergo/teller/internal/adapter/http/middleware"
	"github.com/tellergo/teller/internal/domain"
	"github.com/tellergo/teller/internal/infrastructure/metrics"
	"github.com/tellergo/teller/internal/usecase"
)

// UserService defines the user operations needed by AuthHandler.
type UserService interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
}

// SessionService defines the session operations needed by AuthHandler.
type SessionService interface {
	Issue(ctx context.Context, userID string) (*domain.Session, error)
	Revoke(ctx context.Context, token string) error
}

// AuthHandler handles registration, login, and logout.
type AuthHandler struct {
	users    UserService
	sessions SessionService
	metrics  *metrics.Metrics
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users UserService, sessions SessionService, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		metrics:  m,
	}
}

// Register creates a new user.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.users.Register(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to register", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.UserFromDomain(user))
}

// Login verifies credentials and issues a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		h.metrics.AuthAttempts.WithLabelValues("failure").Inc()
		writeError(w, mapDomainError(err), "invalid credentials", "")
		return
	}

	session, err := h.sessions.Issue(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create session", err.Error())
		return
	}

	h.metrics.AuthAttempts.WithLabelValues("success").Inc()
	h.metrics.SessionsIssued.Inc()

	writeJSON(w, http.StatusOK, dto.SessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      dto.UserFromDomain(user),
	})
}

// Logout revokes the session token the request was authenticated with.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.GetTokenFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "")
		return
	}

	if err := h.sessions.Revoke(r.Context(), token); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to revoke session", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

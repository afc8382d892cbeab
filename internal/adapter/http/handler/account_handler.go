package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tellergo/teller/internal/adapter/http/dto"
	"github.com/tellergo/teller/internal/adapter/http/middleware"
	"github.com/tellergo/teller/internal/domain"
	"github.com/tellergo/teller/internal/infrastructure/metrics"
)

// DirectoryService defines the account directory operations needed by
// AccountHandler.
type DirectoryService interface {
	CreateAccount(ctx context.Context, ownerID string) (*domain.Account, error)
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ListAccountsByOwner(ctx context.Context, ownerID string) ([]*domain.Account, error)
}

// AccountHandler handles a customer's own accounts.
type AccountHandler struct {
	directory DirectoryService
	metrics   *metrics.Metrics
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(directory DirectoryService, m *metrics.Metrics) *AccountHandler {
	return &AccountHandler{directory: directory, metrics: m}
}

// Create opens a new account owned by the authenticated customer.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "")
		return
	}

	account, err := h.directory.CreateAccount(r.Context(), user.ID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create account", err.Error())
		return
	}

	h.metrics.AccountsCreated.Inc()

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// List lists the authenticated customer's accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "")
		return
	}

	accounts, err := h.directory.ListAccountsByOwner(r.Context(), user.ID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list accounts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    int64(len(accounts)),
	})
}

// Get retrieves one of the authenticated customer's accounts.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	account, err := h.directory.GetAccount(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return
	}

	if account.OwnerID != user.ID {
		writeError(w, http.StatusForbidden, "not your account", "")
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

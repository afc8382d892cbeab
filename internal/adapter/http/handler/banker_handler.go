package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tellergo/teller/internal/adapter/http/dto"
	"github.com/tellergo/teller/internal/domain"
	"github.com/tellergo/teller/internal/usecase"
)

// CustomerDirectoryService defines the customer lookup operations needed by
// BankerHandler.
type CustomerDirectoryService interface {
	ListCustomers(ctx context.Context, limit, offset int) ([]*domain.User, error)
	SearchCustomers(ctx context.Context, query string, limit int) ([]*domain.User, error)
}

// BankerDirectoryService defines the account visibility operations needed
// by BankerHandler.
type BankerDirectoryService interface {
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ListAllAccounts(ctx context.Context, limit, offset int) ([]*domain.AccountSummary, error)
}

// BankerHandler gives bankers read-only visibility over customers and
// their accounts. None of its routes mutate anything.
type BankerHandler struct {
	customers CustomerDirectoryService
	directory BankerDirectoryService
	ledger    LedgerService
}

// NewBankerHandler creates a new BankerHandler.
func NewBankerHandler(customers CustomerDirectoryService, directory BankerDirectoryService, ledger LedgerService) *BankerHandler {
	return &BankerHandler{
		customers: customers,
		directory: directory,
		ledger:    ledger,
	}
}

// ListCustomers lists customer users.
func (h *BankerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	users, err := h.customers.ListCustomers(r.Context(),
		parseIntQuery(r, "limit", 0),
		parseIntQuery(r, "offset", 0),
	)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list customers", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListUsersResponse{
		Users: dto.UsersFromDomain(users),
		Total: int64(len(users)),
	})
}

// SearchCustomers searches customers by name or email substring.
func (h *BankerHandler) SearchCustomers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter q", "")
		return
	}

	users, err := h.customers.SearchCustomers(r.Context(), query, parseIntQuery(r, "limit", 0))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to search customers", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListUsersResponse{
		Users: dto.UsersFromDomain(users),
		Total: int64(len(users)),
	})
}

// ListAccounts lists all accounts with owner info.
func (h *BankerHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.directory.ListAllAccounts(r.Context(),
		parseIntQuery(r, "limit", 0),
		parseIntQuery(r, "offset", 0),
	)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list accounts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountSummariesResponse{
		Accounts: dto.AccountSummariesFromDomain(summaries),
		Total:    int64(len(summaries)),
	})
}

// AccountHistory returns any account's transactions, newest first.
func (h *BankerHandler) AccountHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	txns, err := h.ledger.GetHistory(r.Context(), usecase.HistoryInput{
		AccountID: id,
		Limit:     parseIntQuery(r, "limit", 0),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get history", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromDomain(txns),
		Total:        int64(len(txns)),
	})
}

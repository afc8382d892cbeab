package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tellergo/teller/internal/adapter/http/dto"
	"github.com/tellergo/teller/internal/adapter/http/middleware"
	"github.com/tellergo/teller/internal/domain"
	"github.com/tellergo/teller/internal/infrastructure/metrics"
	"github.com/tellergo/teller/internal/usecase"
)

// LedgerService defines the ledger operations needed by LedgerHandler.
type LedgerService interface {
	Deposit(ctx context.Context, input usecase.DepositInput) (*domain.Transaction, error)
	Withdraw(ctx context.Context, input usecase.WithdrawInput) (*domain.Transaction, error)
	GetHistory(ctx context.Context, input usecase.HistoryInput) ([]*domain.Transaction, error)
}

// LedgerHandler handles deposits, withdrawals, and transaction history on a
// customer's own accounts.
type LedgerHandler struct {
	ledger    LedgerService
	directory DirectoryService
	metrics   *metrics.Metrics
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledger LedgerService, directory DirectoryService, m *metrics.Metrics) *LedgerHandler {
	return &LedgerHandler{
		ledger:    ledger,
		directory: directory,
		metrics:   m,
	}
}

// Deposit credits money to an account.
func (h *LedgerHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	accountID, req, ok := h.mutationRequest(w, r)
	if !ok {
		return
	}

	start := time.Now()

	txn, err := h.ledger.Deposit(r.Context(), usecase.DepositInput{
		AccountID:   accountID,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "deposit failed", err.Error())
		return
	}

	h.metrics.DepositsTotal.Inc()
	h.metrics.TransactionAmount.Observe(txn.Amount.InexactFloat64())
	h.metrics.MutationDuration.Observe(time.Since(start).Seconds())

	writeJSON(w, http.StatusCreated, dto.MutationResponse{
		Message:     "deposit successful",
		Transaction: dto.TransactionFromDomain(txn),
	})
}

// Withdraw debits money from an account.
func (h *LedgerHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	accountID, req, ok := h.mutationRequest(w, r)
	if !ok {
		return
	}

	start := time.Now()

	txn, err := h.ledger.Withdraw(r.Context(), usecase.WithdrawInput{
		AccountID:   accountID,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) {
			h.metrics.InsufficientFunds.Inc()
		}
		writeError(w, mapDomainError(err), "withdrawal failed", err.Error())
		return
	}

	h.metrics.WithdrawalsTotal.Inc()
	h.metrics.TransactionAmount.Observe(txn.Amount.InexactFloat64())
	h.metrics.MutationDuration.Observe(time.Since(start).Seconds())

	writeJSON(w, http.StatusCreated, dto.MutationResponse{
		Message:     "withdrawal successful",
		Transaction: dto.TransactionFromDomain(txn),
	})
}

// History returns the account's transactions, newest first.
func (h *LedgerHandler) History(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.ownedAccount(w, r)
	if !ok {
		return
	}

	txns, err := h.ledger.GetHistory(r.Context(), usecase.HistoryInput{
		AccountID: accountID,
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

// mutationRequest resolves the target account, enforces ownership, and
// decodes the request body.
func (h *LedgerHandler) mutationRequest(w http.ResponseWriter, r *http.Request) (string, *dto.MutationRequest, bool) {
	accountID, ok := h.ownedAccount(w, r)
	if !ok {
		return "", nil, false
	}

	var req dto.MutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return "", nil, false
	}

	return accountID, &req, true
}

// ownedAccount returns the account ID from the URL after checking the
// authenticated user owns it.
func (h *LedgerHandler) ownedAccount(w http.ResponseWriter, r *http.Request) (string, bool) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "")
		return "", false
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return "", false
	}

	account, err := h.directory.GetAccount(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return "", false
	}

	if account.OwnerID != user.ID {
		writeError(w, http.StatusForbidden, "not your account", "")
		return "", false
	}

	return id, true
}

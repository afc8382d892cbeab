package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tellergo/teller/internal/adapter/http/dto"
	"github.com/tellergo/teller/internal/domain"
	"github.com/tellergo/teller/internal/usecase"
)

type customerDirectoryStub struct {
	listFn   func(ctx context.Context, limit, offset int) ([]*domain.User, error)
	searchFn func(ctx context.Context, query string, limit int) ([]*domain.User, error)
}

func (s *customerDirectoryStub) ListCustomers(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	return s.listFn(ctx, limit, offset)
}

func (s *customerDirectoryStub) SearchCustomers(ctx context.Context, query string, limit int) ([]*domain.User, error) {
	return s.searchFn(ctx, query, limit)
}

type bankerDirectoryStub struct {
	getFn     func(ctx context.Context, id string) (*domain.Account, error)
	listAllFn func(ctx context.Context, limit, offset int) ([]*domain.AccountSummary, error)
}

func (s *bankerDirectoryStub) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func (s *bankerDirectoryStub) ListAllAccounts(ctx context.Context, limit, offset int) ([]*domain.AccountSummary, error) {
	return s.listAllFn(ctx, limit, offset)
}

func TestBankerHandlerListCustomers(t *testing.T) {
	handler := NewBankerHandler(&customerDirectoryStub{
		listFn: func(ctx context.Context, limit, offset int) ([]*domain.User, error) {
			if limit != 10 || offset != 20 {
				t.Fatalf("expected limit=10 offset=20, got %d/%d", limit, offset)
			}
			return []*domain.User{
				{ID: "user-1", Username: "alice", Role: domain.RoleCustomer},
				{ID: "user-2", Username: "bob", Role: domain.RoleCustomer},
			}, nil
		},
	}, &bankerDirectoryStub{}, &ledgerServiceStub{})

	req := httptest.NewRequest(http.MethodGet, "/banker/customers?limit=10&offset=20", nil)
	rec := httptest.NewRecorder()

	handler.ListCustomers(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.ListUsersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 2 || len(resp.Users) != 2 {
		t.Fatalf("expected 2 customers, got %+v", resp)
	}
}

func TestBankerHandlerSearchCustomers(t *testing.T) {
	handler := NewBankerHandler(&customerDirectoryStub{
		searchFn: func(ctx context.Context, query string, limit int) ([]*domain.User, error) {
			if query != "ali" {
				t.Fatalf("expected query %q, got %q", "ali", query)
			}
			return []*domain.User{{ID: "user-1", Username: "alice"}}, nil
		},
	}, &bankerDirectoryStub{}, &ledgerServiceStub{})

	req := httptest.NewRequest(http.MethodGet, "/banker/customers/search?q=ali", nil)
	rec := httptest.NewRecorder()

	handler.SearchCustomers(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.ListUsersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("expected 1 match, got %+v", resp)
	}
}

func TestBankerHandlerSearchCustomersMissingQuery(t *testing.T) {
	handler := NewBankerHandler(&customerDirectoryStub{
		searchFn: func(ctx context.Context, query string, limit int) ([]*domain.User, error) {
			t.Fatal("SearchCustomers should not be called without q")
			return nil, nil
		},
	}, &bankerDirectoryStub{}, &ledgerServiceStub{})

	req := httptest.NewRequest(http.MethodGet, "/banker/customers/search", nil)
	rec := httptest.NewRecorder()

	handler.SearchCustomers(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestBankerHandlerListAccounts(t *testing.T) {
	handler := NewBankerHandler(&customerDirectoryStub{}, &bankerDirectoryStub{
		listAllFn: func(ctx context.Context, limit, offset int) ([]*domain.AccountSummary, error) {
			return []*domain.AccountSummary{
				{
					Account:       domain.Account{ID: "acc-1", OwnerID: "user-1"},
					OwnerUsername: "alice",
					OwnerEmail:    "alice@example.com",
				},
			}, nil
		},
	}, &ledgerServiceStub{})

	req := httptest.NewRequest(http.MethodGet, "/banker/accounts", nil)
	rec := httptest.NewRecorder()

	handler.ListAccounts(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.ListAccountSummariesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("expected 1 account, got %+v", resp)
	}
	if resp.Accounts[0].OwnerUsername != "alice" {
		t.Fatalf("expected owner info on summary, got %+v", resp.Accounts[0])
	}
}

func TestBankerHandlerAccountHistory(t *testing.T) {
	handler := NewBankerHandler(&customerDirectoryStub{}, &bankerDirectoryStub{}, &ledgerServiceStub{
		historyFn: func(ctx context.Context, input usecase.HistoryInput) ([]*domain.Transaction, error) {
			if input.AccountID != "acc-1" {
				t.Fatalf("expected acc-1, got %s", input.AccountID)
			}
			return []*domain.Transaction{
				{ID: "txn-2", AccountID: "acc-1", Type: domain.TransactionWithdrawal},
				{ID: "txn-1", AccountID: "acc-1", Type: domain.TransactionDeposit},
			}, nil
		},
	})

	// No ownership check here: bankers can read any account's history.
	req := httptest.NewRequest(http.MethodGet, "/banker/accounts/acc-1/transactions", nil)
	req = setChiURLParam(req, "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.AccountHistory(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.ListTransactionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 2 || resp.Transactions[0].ID != "txn-2" {
		t.Fatalf("expected newest-first history, got %+v", resp)
	}
}

func TestBankerHandlerAccountHistoryNotFound(t *testing.T) {
	handler := NewBankerHandler(&customerDirectoryStub{}, &bankerDirectoryStub{}, &ledgerServiceStub{
		historyFn: func(ctx context.Context, input usecase.HistoryInput) ([]*domain.Transaction, error) {
			return nil, domain.ErrAccountNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/banker/accounts/missing/transactions", nil)
	req = setChiURLParam(req, "id", "missing")
	rec := httptest.NewRecorder()

	handler.AccountHistory(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tellergo/teller/internal/adapter/http/dto"
	"github.com/tellergo/teller/internal/domain"
)

func TestAccountHandlerCreate(t *testing.T) {
	handler := NewAccountHandler(&directoryServiceStub{
		createFn: func(ctx context.Context, ownerID string) (*domain.Account, error) {
			return &domain.Account{
				ID:            "acc-1",
				OwnerID:       ownerID,
				AccountNumber: "ACCT-0123456789",
				Balance:       decimal.Zero,
			}, nil
		},
	}, newTestMetrics())

	req := httptest.NewRequest(http.MethodPost, "/accounts", nil)
	req = withUser(req, customer("user-1"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.OwnerID != "user-1" || resp.AccountNumber != "ACCT-0123456789" {
		t.Fatalf("unexpected account: %+v", resp)
	}
	if !resp.Balance.IsZero() {
		t.Fatalf("expected zero opening balance, got %s", resp.Balance)
	}
}

func TestAccountHandlerCreateUnauthenticated(t *testing.T) {
	handler := NewAccountHandler(&directoryServiceStub{
		createFn: func(ctx context.Context, ownerID string) (*domain.Account, error) {
			t.Fatal("CreateAccount should not be called without a user")
			return nil, nil
		},
	}, newTestMetrics())

	req := httptest.NewRequest(http.MethodPost, "/accounts", nil)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAccountHandlerList(t *testing.T) {
	handler := NewAccountHandler(&directoryServiceStub{
		listFn: func(ctx context.Context, ownerID string) ([]*domain.Account, error) {
			if ownerID != "user-1" {
				t.Fatalf("expected list scoped to user-1, got %s", ownerID)
			}
			return []*domain.Account{{ID: "acc-1"}, {ID: "acc-2"}}, nil
		},
	}, newTestMetrics())

	req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
	req = withUser(req, customer("user-1"))
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ListAccountsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("expected 2 accounts, got %+v", resp)
	}
}

func TestAccountHandlerGet(t *testing.T) {
	tests := []struct {
		name     string
		owner    string
		wantCode int
	}{
		{name: "own account", owner: "user-1", wantCode: http.StatusOK},
		{name: "foreign account", owner: "user-2", wantCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAccountHandler(ownedAccountDirectory(tt.owner), newTestMetrics())

			req := httptest.NewRequest(http.MethodGet, "/accounts/acc-1", nil)
			req = setChiURLParam(req, "id", "acc-1")
			req = withUser(req, customer("user-1"))
			rec := httptest.NewRecorder()

			handler.Get(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
		})
	}
}

func TestAccountHandlerGetNotFound(t *testing.T) {
	handler := NewAccountHandler(&directoryServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Account, error) {
			return nil, domain.ErrAccountNotFound
		},
	}, newTestMetrics())

	req := httptest.NewRequest(http.MethodGet, "/accounts/missing", nil)
	req = setChiURLParam(req, "id", "missing")
	req = withUser(req, customer("user-1"))
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

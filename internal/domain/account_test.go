package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestAccountValidateWithdrawal(t *testing.T) {
	tests := []struct {
		name    string
		balance int64
		amount  int64
		wantErr error
	}{
		{"sufficient funds", 1000, 600, nil},
		{"exact balance", 1000, 1000, nil},
		{"insufficient funds", 1000, 2000, ErrInsufficientFunds},
		{"zero balance", 0, 1, ErrInsufficientFunds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Account{Balance: decimal.NewFromInt(tt.balance)}

			err := a.ValidateWithdrawal(decimal.NewFromInt(tt.amount))
			if err != tt.wantErr {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAccountApply(t *testing.T) {
	a := &Account{Balance: decimal.NewFromInt(1000)}

	if got := a.ApplyDeposit(decimal.NewFromInt(500)); !got.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("expected 1500 after deposit, got %s", got)
	}

	if got := a.ApplyWithdrawal(decimal.NewFromInt(400)); !got.Equal(decimal.NewFromInt(600)) {
		t.Errorf("expected 600 after withdrawal, got %s", got)
	}

	// Apply helpers never mutate the account itself.
	if !a.Balance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected balance unchanged, got %s", a.Balance)
	}
}

func TestTransactionValidate(t *testing.T) {
	tests := []struct {
		name    string
		txn     Transaction
		wantErr error
	}{
		{
			name: "valid deposit",
			txn: Transaction{
				Type:         TransactionDeposit,
				Amount:       decimal.NewFromInt(500),
				BalanceAfter: decimal.NewFromInt(1500),
			},
			wantErr: nil,
		},
		{
			name: "unknown type",
			txn: Transaction{
				Type:         TransactionType("transfer"),
				Amount:       decimal.NewFromInt(500),
				BalanceAfter: decimal.NewFromInt(1500),
			},
			wantErr: ErrInvalidTransactionType,
		},
		{
			name: "non-positive amount",
			txn: Transaction{
				Type:         TransactionDeposit,
				Amount:       decimal.Zero,
				BalanceAfter: decimal.NewFromInt(1500),
			},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "negative balance after",
			txn: Transaction{
				Type:         TransactionWithdrawal,
				Amount:       decimal.NewFromInt(500),
				BalanceAfter: decimal.NewFromInt(-1),
			},
			wantErr: ErrInsufficientFunds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.txn.Validate(); err != tt.wantErr {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTransactionSignedAmount(t *testing.T) {
	deposit := Transaction{Type: TransactionDeposit, Amount: decimal.NewFromInt(500)}
	if !deposit.SignedAmount().Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected +500, got %s", deposit.SignedAmount())
	}

	withdrawal := Transaction{Type: TransactionWithdrawal, Amount: decimal.NewFromInt(300)}
	if !withdrawal.SignedAmount().Equal(decimal.NewFromInt(-300)) {
		t.Errorf("expected -300, got %s", withdrawal.SignedAmount())
	}
}

func TestSessionIsExpired(t *testing.T) {
	now := time.Now().UTC()

	active := &Session{ExpiresAt: now.Add(time.Minute)}
	if active.IsExpired(now) {
		t.Error("expected active session")
	}

	expired := &Session{ExpiresAt: now}
	if !expired.IsExpired(now) {
		t.Error("expected expired session at exact expiry instant")
	}
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies the direction of a ledger transaction.
type TransactionType string

const (
	TransactionDeposit    TransactionType = "deposit"
	TransactionWithdrawal TransactionType = "withdrawal"
)

// IsValid checks if the transaction type is known.
func (t TransactionType) IsValid() bool {
	return t == TransactionDeposit || t == TransactionWithdrawal
}

// Transaction is a single immutable ledger record. Rows are append-only:
// once committed they are never updated or deleted.
type Transaction struct {
	ID           string
	AccountID    string
	Type         TransactionType
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
	Description  string
	CreatedAt    time.Time
}

// Validate checks transaction fields before persistence.
func (t *Transaction) Validate() error {
	if !t.Type.IsValid() {
		return ErrInvalidTransactionType
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if t.BalanceAfter.IsNegative() {
		return ErrInsufficientFunds
	}

	return nil
}

// SignedAmount returns the amount with the sign implied by the type:
// positive for deposits, negative for withdrawals. Summing signed amounts
// in (CreatedAt, ID) order reconstructs the account balance.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionWithdrawal {
		return t.Amount.Neg()
	}
	return t.Amount
}

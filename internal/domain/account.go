package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a customer-owned monetary account. Its balance always
// equals the BalanceAfter of its most recent transaction.
type Account struct {
	ID            string
	OwnerID       string
	AccountNumber string
	Balance       decimal.Decimal
	CreatedAt     time.Time
}

// ValidateWithdrawal checks if the account holds enough funds to be debited
// by amount. Must be evaluated against a balance read under the row lock.
func (a *Account) ValidateWithdrawal(amount decimal.Decimal) error {
	if a.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	return nil
}

// ApplyDeposit returns the balance after crediting amount.
func (a *Account) ApplyDeposit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}

// ApplyWithdrawal returns the balance after debiting amount.
func (a *Account) ApplyWithdrawal(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Sub(amount)
}

// AccountSummary is an account joined with owner display info, for the
// banker listing.
type AccountSummary struct {
	Account

	OwnerUsername string
	OwnerFullName string
	OwnerEmail    string
}

package domain

import "errors"

var (
	// Ledger errors
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// Account errors
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountNumberTaken = errors.New("account number already in use")

	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("username or email already registered")

	// Authentication errors
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrSessionNotFound = errors.New("session not found")
)

package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tellergo/teller/internal/domain"
)

// Number of attempts to generate a non-colliding account number before
// giving up.
const maxNumberAttempts = 5

// DirectoryUseCase is the account lookup/listing layer. It never touches
// balances beyond the zero opening balance at creation; all mutation goes
// through the LedgerUseCase.
type DirectoryUseCase struct {
	accountRepo AccountRepository
	idGen       IDGenerator
	retrier     Retrier
}

// NewDirectoryUseCase creates a new DirectoryUseCase.
func NewDirectoryUseCase(accountRepo AccountRepository, idGen IDGenerator, retrier Retrier) *DirectoryUseCase {
	return &DirectoryUseCase{
		accountRepo: accountRepo,
		idGen:       idGen,
		retrier:     retrier,
	}
}

// CreateAccount opens a new account for the owner with a zero balance and a
// fresh unique account number. Owners may hold any number of accounts; a
// one-account-per-user policy is the caller's to enforce.
func (uc *DirectoryUseCase) CreateAccount(ctx context.Context, ownerID string) (*domain.Account, error) {
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		account := &domain.Account{
			ID:            uc.idGen.Generate(),
			OwnerID:       ownerID,
			AccountNumber: generateAccountNumber(),
			Balance:       decimal.Zero,
			CreatedAt:     time.Now().UTC(),
		}

		err := uc.accountRepo.Create(ctx, account)
		if err == nil {
			return account, nil
		}

		if !errors.Is(err, domain.ErrAccountNumberTaken) {
			return nil, err
		}
	}

	return nil, domain.ErrAccountNumberTaken
}

// GetAccount retrieves an account by ID.
func (uc *DirectoryUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	var account *domain.Account

	err := uc.retrier.Retry(ctx, func() error {
		var err error
		account, err = uc.accountRepo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccountByNumber retrieves an account by its external account number.
func (uc *DirectoryUseCase) GetAccountByNumber(ctx context.Context, number string) (*domain.Account, error) {
	return uc.accountRepo.GetByNumber(ctx, number)
}

// ListAccountsByOwner lists accounts held by an owner.
func (uc *DirectoryUseCase) ListAccountsByOwner(ctx context.Context, ownerID string) ([]*domain.Account, error) {
	var accounts []*domain.Account

	err := uc.retrier.Retry(ctx, func() error {
		var err error
		accounts, err = uc.accountRepo.ListByOwner(ctx, ownerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return accounts, nil
}

// ListAllAccounts lists every account joined with owner display info, for
// the banker view. Read-only.
func (uc *DirectoryUseCase) ListAllAccounts(ctx context.Context, limit, offset int) ([]*domain.AccountSummary, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	var summaries []*domain.AccountSummary

	err := uc.retrier.Retry(ctx, func() error {
		var err error
		summaries, err = uc.accountRepo.ListAllWithOwner(ctx, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}

	return summaries, nil
}

// generateAccountNumber produces an externally visible account number in the
// form ACCT- followed by ten digits.
func generateAccountNumber() string {
	max := big.NewInt(10_000_000_000)

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		// crypto/rand only fails when the platform source is broken.
		panic(fmt.Sprintf("account number generation: %v", err))
	}

	return fmt.Sprintf("ACCT-%010d", n)
}

package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tellergo/teller/internal/domain"
)

// LedgerUseCase is the sole writer of account balances and transaction rows.
// Every mutation is a single atomic unit of work: read the balance under a
// per-account row lock, compute the new balance, insert the transaction with
// its balance snapshot, and update the account, all in one database
// transaction. Operations on different accounts never block one another.
type LedgerUseCase struct {
	txManager   TxManager
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	idGen       IDGenerator
	retrier     Retrier
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TxManager,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	idGen IDGenerator,
	retrier Retrier,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		idGen:       idGen,
		retrier:     retrier,
	}
}

// DepositInput represents input for a deposit.
type DepositInput struct {
	AccountID   string
	Amount      decimal.Decimal
	Description string
}

// Deposit credits amount to the account and appends the transaction record.
func (uc *LedgerUseCase) Deposit(ctx context.Context, input DepositInput) (*domain.Transaction, error) {
	return uc.mutate(ctx, input.AccountID, domain.TransactionDeposit, input.Amount, input.Description)
}

// WithdrawInput represents input for a withdrawal.
type WithdrawInput struct {
	AccountID   string
	Amount      decimal.Decimal
	Description string
}

// Withdraw debits amount from the account and appends the transaction
// record. Fails with domain.ErrInsufficientFunds when the balance read under
// the lock is below amount; nothing is persisted in that case.
func (uc *LedgerUseCase) Withdraw(ctx context.Context, input WithdrawInput) (*domain.Transaction, error) {
	return uc.mutate(ctx, input.AccountID, domain.TransactionWithdrawal, input.Amount, input.Description)
}

func (uc *LedgerUseCase) mutate(
	ctx context.Context,
	accountID string,
	txnType domain.TransactionType,
	amount decimal.Decimal,
	description string,
) (*domain.Transaction, error) {
	// Caller errors are reported before any transaction is opened.
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	if err := domain.ValidateDescription(description); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// SELECT ... FOR UPDATE: serializes writers on this account only.
	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}

	var newBalance decimal.Decimal
	if txnType == domain.TransactionWithdrawal {
		// Funds check against the locked read, not an earlier snapshot.
		if err := account.ValidateWithdrawal(amount); err != nil {
			return nil, err
		}
		newBalance = account.ApplyWithdrawal(amount)
	} else {
		newBalance = account.ApplyDeposit(amount)
	}

	txn := &domain.Transaction{
		ID:           uc.idGen.Generate(),
		AccountID:    account.ID,
		Type:         txnType,
		Amount:       amount,
		BalanceAfter: newBalance,
		Description:  description,
		CreatedAt:    time.Now().UTC(),
	}

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return txn, nil
}

// HistoryInput represents input for a history read.
type HistoryInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// GetHistory returns the account's transactions newest-first. The read is a
// consistent snapshot: a transaction is visible only once its whole unit of
// work committed.
func (uc *LedgerUseCase) GetHistory(ctx context.Context, input HistoryInput) ([]*domain.Transaction, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	if _, err := uc.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	var txns []*domain.Transaction

	err := uc.retrier.Retry(ctx, func() error {
		var err error
		txns, err = uc.txnRepo.ListByAccount(ctx, input.AccountID, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}

	return txns, nil
}

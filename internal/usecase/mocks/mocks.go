package mocks

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/tellergo/teller/internal/domain"
	"github.com/tellergo/teller/internal/usecase"
)

// LedgerStore is an in-memory store that emulates the row-lock semantics the
// ledger relies on: GetByIDForUpdate acquires a per-account lock that is held
// until the transaction commits or rolls back, and staged writes become
// visible atomically at commit. It backs the mock repositories for tests that
// exercise concurrent mutations without a database.
type LedgerStore struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	txns     map[string][]*domain.Transaction
	locks    map[string]*sync.Mutex
}

// NewLedgerStore creates an empty LedgerStore.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{
		accounts: make(map[string]*domain.Account),
		txns:     make(map[string][]*domain.Transaction),
		locks:    make(map[string]*sync.Mutex),
	}
}

// Seed inserts an account directly, bypassing locking.
func (s *LedgerStore) Seed(account *domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *account
	s.accounts[account.ID] = &copied
}

// Account returns a copy of the stored account, or nil.
func (s *LedgerStore) Account(id string) *domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil
	}

	copied := *account
	return &copied
}

// TransactionsInCommitOrder returns the account's committed transactions
// oldest-first.
func (s *LedgerStore) TransactionsInCommitOrder(accountID string) []*domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	txns := s.txns[accountID]
	out := make([]*domain.Transaction, len(txns))
	for i, txn := range txns {
		copied := *txn
		out[i] = &copied
	}

	return out
}

// Begin implements usecase.TxManager.
func (s *LedgerStore) Begin(ctx context.Context) (usecase.Tx, error) {
	return &storeTx{store: s}, nil
}

func (s *LedgerStore) lockRow(id string) func() {
	s.mu.Lock()
	m, ok := s.locks[id]
	if !ok {
		m = &sync.Mutex{}
		s.locks[id] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// storeTx implements usecase.Tx over the LedgerStore.
type storeTx struct {
	store   *LedgerStore
	staged  []func()
	unlocks []func()
	done    bool
}

func (t *storeTx) Commit(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true

	t.store.mu.Lock()
	for _, apply := range t.staged {
		apply()
	}
	t.store.mu.Unlock()

	t.release()
	return nil
}

func (t *storeTx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true

	t.staged = nil
	t.release()
	return nil
}

func (t *storeTx) release() {
	for _, unlock := range t.unlocks {
		unlock()
	}
	t.unlocks = nil
}

// MockAccountRepository implements usecase.AccountRepository over a
// LedgerStore, with optional per-method overrides.
type MockAccountRepository struct {
	store *LedgerStore

	CreateFunc           func(ctx context.Context, account *domain.Account) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Tx, id string) (*domain.Account, error)
	GetByNumberFunc      func(ctx context.Context, number string) (*domain.Account, error)
	ListByOwnerFunc      func(ctx context.Context, ownerID string) ([]*domain.Account, error)
	ListAllWithOwnerFunc func(ctx context.Context, limit, offset int) ([]*domain.AccountSummary, error)
	UpdateBalanceFunc    func(ctx context.Context, tx usecase.Tx, id string, balance decimal.Decimal) error
}

// AccountRepo returns an account repository backed by the store.
func (s *LedgerStore) AccountRepo() *MockAccountRepository {
	return &MockAccountRepository{store: s}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	for _, existing := range m.store.accounts {
		if existing.AccountNumber == account.AccountNumber {
			return domain.ErrAccountNumberTaken
		}
	}

	copied := *account
	m.store.accounts[account.ID] = &copied
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}

	account := m.store.Account(id)
	if account == nil {
		return nil, domain.ErrAccountNotFound
	}

	return account, nil
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Tx, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}

	stx := tx.(*storeTx)
	unlock := m.store.lockRow(id)
	stx.unlocks = append(stx.unlocks, unlock)

	account := m.store.Account(id)
	if account == nil {
		return nil, domain.ErrAccountNotFound
	}

	return account, nil
}

func (m *MockAccountRepository) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	if m.GetByNumberFunc != nil {
		return m.GetByNumberFunc(ctx, number)
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	for _, account := range m.store.accounts {
		if account.AccountNumber == number {
			copied := *account
			return &copied, nil
		}
	}

	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Account, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, ownerID)
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	var accounts []*domain.Account
	for _, account := range m.store.accounts {
		if account.OwnerID == ownerID {
			copied := *account
			accounts = append(accounts, &copied)
		}
	}

	return accounts, nil
}

func (m *MockAccountRepository) ListAllWithOwner(ctx context.Context, limit, offset int) ([]*domain.AccountSummary, error) {
	if m.ListAllWithOwnerFunc != nil {
		return m.ListAllWithOwnerFunc(ctx, limit, offset)
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	var summaries []*domain.AccountSummary
	for _, account := range m.store.accounts {
		summaries = append(summaries, &domain.AccountSummary{Account: *account})
	}

	return summaries, nil
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Tx, id string, balance decimal.Decimal) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance)
	}

	stx := tx.(*storeTx)
	store := m.store
	stx.staged = append(stx.staged, func() {
		if account, ok := store.accounts[id]; ok {
			account.Balance = balance
		}
	})

	return nil
}

// MockTransactionRepository implements usecase.TransactionRepository over a
// LedgerStore.
type MockTransactionRepository struct {
	store *LedgerStore

	CreateFunc        func(ctx context.Context, tx usecase.Tx, txn *domain.Transaction) error
	ListByAccountFunc func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error)
}

// TransactionRepo returns a transaction repository backed by the store.
func (s *LedgerStore) TransactionRepo() *MockTransactionRepository {
	return &MockTransactionRepository{store: s}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Tx, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}

	stx := tx.(*storeTx)
	store := m.store
	copied := *txn
	stx.staged = append(stx.staged, func() {
		store.txns[copied.AccountID] = append(store.txns[copied.AccountID], &copied)
	})

	return nil
}

func (m *MockTransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}

	all := m.store.TransactionsInCommitOrder(accountID)

	// Newest first.
	newest := make([]*domain.Transaction, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		newest = append(newest, all[i])
	}

	if offset >= len(newest) {
		return nil, nil
	}
	newest = newest[offset:]

	if limit > 0 && limit < len(newest) {
		newest = newest[:limit]
	}

	return newest, nil
}

// MockIDGenerator generates sequential IDs, zero-padded so lexical order
// matches generation order like ULIDs.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.counter++
	return "id-" + pad(m.counter)
}

func pad(n int) string {
	const digits = 8

	buf := make([]byte, digits)
	for i := digits - 1; i >= 0; i-- {
		buf[i] = byte('0' + n%10)
		n /= 10
	}

	return string(buf)
}

// MockTokenGenerator generates sequential opaque tokens.
type MockTokenGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockTokenGenerator() *MockTokenGenerator {
	return &MockTokenGenerator{}
}

func (m *MockTokenGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.counter++
	return "token-" + pad(m.counter)
}

// PassthroughRetrier runs the operation once with no retries.
type PassthroughRetrier struct{}

func NewPassthroughRetrier() *PassthroughRetrier {
	return &PassthroughRetrier{}
}

func (r *PassthroughRetrier) Retry(ctx context.Context, op func() error) error {
	return op()
}

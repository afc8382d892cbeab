package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tellergo/teller/internal/domain"
	"github.com/tellergo/teller/internal/usecase"
)

const pgErrUniqueViolation = "23505"

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (id, owner_id, account_number, balance, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		account.ID,
		account.OwnerID,
		account.AccountNumber,
		decimalToNumeric(account.Balance),
		account.CreatedAt,
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
		return domain.ErrAccountNumberTaken
	}

	return err
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `
		SELECT id, owner_id, account_number, balance, created_at
		FROM accounts
		WHERE id = $1
	`

	return r.scanAccount(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE row lock.
// The lock is held until tx commits or rolls back.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Tx, id string) (*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		SELECT id, owner_id, account_number, balance, created_at
		FROM accounts
		WHERE id = $1
		FOR UPDATE
	`

	return r.scanAccount(pgxTx.QueryRow(ctx, query, id))
}

// GetByNumber retrieves an account by its account number.
func (r *AccountRepository) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	query := `
		SELECT id, owner_id, account_number, balance, created_at
		FROM accounts
		WHERE account_number = $1
	`

	return r.scanAccount(r.pool.QueryRow(ctx, query, number))
}

// ListByOwner retrieves all accounts held by a user.
func (r *AccountRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Account, error) {
	query := `
		SELECT id, owner_id, account_number, balance, created_at
		FROM accounts
		WHERE owner_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		var account domain.Account
		var balance pgtype.Numeric

		err := rows.Scan(
			&account.ID,
			&account.OwnerID,
			&account.AccountNumber,
			&balance,
			&account.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		account.Balance = numericToDecimal(balance)
		accounts = append(accounts, &account)
	}

	return accounts, rows.Err()
}

// ListAllWithOwner retrieves all accounts joined with owner display info,
// for the banker listing.
func (r *AccountRepository) ListAllWithOwner(ctx context.Context, limit, offset int) ([]*domain.AccountSummary, error) {
	query := `
		SELECT a.id, a.owner_id, a.account_number, a.balance, a.created_at,
		       u.username, u.full_name, u.email
		FROM accounts a
		JOIN users u ON u.id = a.owner_id
		ORDER BY a.created_at
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []*domain.AccountSummary
	for rows.Next() {
		var summary domain.AccountSummary
		var balance pgtype.Numeric

		err := rows.Scan(
			&summary.ID,
			&summary.OwnerID,
			&summary.AccountNumber,
			&balance,
			&summary.CreatedAt,
			&summary.OwnerUsername,
			&summary.OwnerFullName,
			&summary.OwnerEmail,
		)
		if err != nil {
			return nil, err
		}

		summary.Balance = numericToDecimal(balance)
		summaries = append(summaries, &summary)
	}

	return summaries, rows.Err()
}

// UpdateBalance updates the balance of an account inside tx. Callers must
// hold the row lock acquired by GetByIDForUpdate.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Tx, id string, balance decimal.Decimal) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `UPDATE accounts SET balance = $2 WHERE id = $1`

	_, err := pgxTx.Exec(ctx, query, id, decimalToNumeric(balance))

	return err
}

func (r *AccountRepository) scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	var balance pgtype.Numeric

	err := row.Scan(
		&account.ID,
		&account.OwnerID,
		&account.AccountNumber,
		&balance,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	account.Balance = numericToDecimal(balance)

	return &account, nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

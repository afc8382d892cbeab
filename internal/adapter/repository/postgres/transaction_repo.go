package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tellergo/teller/internal/domain"
	"github.com/tellergo/teller/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository. The
// transactions table is append-only; rows are never updated or deleted.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create appends a transaction inside tx, so the row becomes visible
// atomically with the balance update it records.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Tx, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO transactions (id, account_id, type, amount, balance_after, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := pgxTx.Exec(ctx, query,
		txn.ID,
		txn.AccountID,
		txn.Type,
		decimalToNumeric(txn.Amount),
		decimalToNumeric(txn.BalanceAfter),
		txn.Description,
		txn.CreatedAt,
	)

	return err
}

// ListByAccount retrieves an account's transactions, newest first. The id
// tiebreak keeps the order stable when timestamps collide.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	query := `
		SELECT id, account_id, type, amount, balance_after, description, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		var txn domain.Transaction
		var amount, balanceAfter pgtype.Numeric

		err := rows.Scan(
			&txn.ID,
			&txn.AccountID,
			&txn.Type,
			&amount,
			&balanceAfter,
			&txn.Description,
			&txn.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		txn.Amount = numericToDecimal(amount)
		txn.BalanceAfter = numericToDecimal(balanceAfter)
		txns = append(txns, &txn)
	}

	return txns, rows.Err()
}

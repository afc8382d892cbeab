package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/tellergo/teller/internal/domain"
	"github.com/tellergo/teller/internal/infrastructure/postgres"
)

// TestDB provides isolated test database connections. Tests using it are
// skipped unless DATABASE_URL points at a disposable database.
type TestDB struct {
	Pool *pgxpool.Pool
	t    *testing.T
}

// NewTestDB creates a new test database connection.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	migrationsPath := "internal/infrastructure/postgres/migrations"
	if _, err := os.Stat(migrationsPath); os.IsNotExist(err) {
		migrationsPath = "../../internal/infrastructure/postgres/migrations"
	}

	if err := postgres.RunMigrations(dbURL, migrationsPath, zerolog.Nop()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	return &TestDB{Pool: pool, t: t}
}

// Cleanup closes the database connection.
func (db *TestDB) Cleanup() {
	db.Pool.Close()
}

// TruncateAll removes all data from tables.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `
		TRUNCATE TABLE sessions CASCADE;
		TRUNCATE TABLE transactions CASCADE;
		TRUNCATE TABLE accounts CASCADE;
		TRUNCATE TABLE users CASCADE;
	`)
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

// CreateTestUser inserts a user with the given role. The password is always
// "password".
func (db *TestDB) CreateTestUser(ctx context.Context, username string, role domain.Role) *domain.User {
	db.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if err != nil {
		db.t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:             ulid.Make().String(),
		Username:       username,
		Email:          username + "@example.com",
		FullName:       username,
		HashedPassword: string(hash),
		Role:           role,
		CreatedAt:      time.Now().UTC(),
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO users (id, username, email, full_name, hashed_password, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, user.ID, user.Username, user.Email, user.FullName, user.HashedPassword, string(user.Role), user.CreatedAt)
	if err != nil {
		db.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateTestAccount inserts an account with a zero balance.
func (db *TestDB) CreateTestAccount(ctx context.Context, ownerID string) *domain.Account {
	db.t.Helper()

	return db.CreateTestAccountWithBalance(ctx, ownerID, decimal.Zero)
}

// CreateTestAccountWithBalance inserts an account with the given balance.
func (db *TestDB) CreateTestAccountWithBalance(ctx context.Context, ownerID string, balance decimal.Decimal) *domain.Account {
	db.t.Helper()

	now := time.Now().UTC()
	account := &domain.Account{
		ID:            ulid.Make().String(),
		OwnerID:       ownerID,
		AccountNumber: fmt.Sprintf("ACCT-%s", ulid.Make().String()),
		Balance:       balance,
		CreatedAt:     now,
	}

	_, err := db.Pool.Exec(ctx, `
		INSERT INTO accounts (id, owner_id, account_number, balance, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, account.ID, account.OwnerID, account.AccountNumber, account.Balance.String(), account.CreatedAt)
	if err != nil {
		db.t.Fatalf("failed to create test account: %v", err)
	}

	return account
}

// GenerateID generates a new ULID.
func GenerateID() string {
	return ulid.Make().String()
}

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/bredex/accounts/auth/migrations"
)

type sqliteAccountRepository struct {
	db *sql.DB
}

// OpenSQLite opens the database file at path and applies the schema migrations.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("error opening sqlite: %w", err)
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := goose.UpContext(ctx, db, "sqlite"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error migrating sqlite: %w", err)
	}
	// single writer; the UNIQUE constraint does the rest
	db.SetMaxOpenConns(1)
	return db, nil
}

func NewSQLiteAccountRepository(db *sql.DB) Repository {
	return &sqliteAccountRepository{db: db}
}

func (s *sqliteAccountRepository) Store(ctx context.Context, acc *Account) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (id, email, user_name, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		string(acc.ID), acc.Credentials.Email, acc.Credentials.Username, acc.Credentials.Password,
		acc.CreatedAt.UTC().Format(time.RFC3339Nano))
	if isUniqueViolation(err) {
		return ErrExistingEmail
	}
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *sqliteAccountRepository) FindByID(ctx context.Context, id ID) (*Account, error) {
	return s.findBy(ctx, "id", string(id))
}

func (s *sqliteAccountRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return s.findBy(ctx, "email", email)
}

func (s *sqliteAccountRepository) findBy(ctx context.Context, column, val string) (*Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, user_name, password_hash, created_at FROM accounts WHERE `+column+` = ?`, val)

	var (
		acc              Account
		id, createdAtStr string
	)
	err := row.Scan(&id, &acc.Credentials.Email, &acc.Credentials.Username, &acc.Credentials.Password, &createdAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("error parsing created_at %q: %w", createdAtStr, err)
	}
	acc.ID = ID(id)
	acc.CreatedAt = createdAt
	return &acc, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE ||
		strings.Contains(sqliteErr.Error(), "UNIQUE constraint failed")
}

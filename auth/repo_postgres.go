package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/bredex/accounts/auth/migrations"
)

const pgUniqueViolation = "23505"

type postgresAccountRepository struct {
	db *sql.DB
}

// OpenPostgres connects through the pgx driver and applies the schema migrations.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error connecting to postgres: %w", err)
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("pgx"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := goose.UpContext(ctx, db, "postgres"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error migrating postgres: %w", err)
	}
	return db, nil
}

func NewPostgresAccountRepository(db *sql.DB) Repository {
	return &postgresAccountRepository{db: db}
}

func (p *postgresAccountRepository) Store(ctx context.Context, acc *Account) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO accounts (id, email, user_name, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`,
		string(acc.ID), acc.Credentials.Email, acc.Credentials.Username, acc.Credentials.Password, acc.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrExistingEmail
	}
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (p *postgresAccountRepository) FindByID(ctx context.Context, id ID) (*Account, error) {
	return p.findBy(ctx, "id", string(id))
}

func (p *postgresAccountRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return p.findBy(ctx, "email", email)
}

// column is never caller-supplied
func (p *postgresAccountRepository) findBy(ctx context.Context, column, val string) (*Account, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT id, email, user_name, password_hash, created_at FROM accounts WHERE `+column+` = $1`, val)

	var (
		acc Account
		id  string
	)
	err := row.Scan(&id, &acc.Credentials.Email, &acc.Credentials.Username, &acc.Credentials.Password, &acc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	acc.ID = ID(id)
	acc.CreatedAt = acc.CreatedAt.UTC()
	return &acc, nil
}

// Package config loads the service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/crypto/bcrypt"

	"github.com/bredex/accounts/auth"
)

const (
	StoreMemory   = "memory"
	StoreMongo    = "mongo"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

type Config struct {
	Addr       string        `env:"AUTH_ADDR" envDefault:":8090"`
	SigningKey string        `env:"AUTH_SIGNING_KEY,required,unset"`
	TokenTTL   time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"24h"`
	HashCost   int           `env:"AUTH_BCRYPT_COST" envDefault:"12"`
	LogLevel   slog.Level    `env:"AUTH_LOG_LEVEL" envDefault:"INFO"`

	Store         string `env:"AUTH_STORE" envDefault:"memory"`
	MongoURI      string `env:"AUTH_MONGO_URI" envDefault:"mongodb://127.0.0.1:27017"`
	MongoDatabase string `env:"AUTH_MONGO_DATABASE" envDefault:"accounts"`
	SQLitePath    string `env:"AUTH_SQLITE_PATH" envDefault:"accounts.db"`
	PostgresDSN   string `env:"AUTH_POSTGRES_DSN"`

	// "email:userName:password" entries separated by semicolons
	SeedAccounts []auth.SeedAccount `env:"AUTH_SEED_ACCOUNTS" envSeparator:";"`
}

// Load parses the environment and checks the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.SigningKey == "" {
		return errors.New("AUTH_SIGNING_KEY must not be empty")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("AUTH_TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.HashCost < bcrypt.MinCost || c.HashCost > bcrypt.MaxCost {
		return fmt.Errorf("AUTH_BCRYPT_COST must be in [%d, %d], got %d", bcrypt.MinCost, bcrypt.MaxCost, c.HashCost)
	}

	switch c.Store {
	case StoreMemory, StoreMongo, StoreSQLite:
	case StorePostgres:
		if c.PostgresDSN == "" {
			return errors.New("AUTH_POSTGRES_DSN is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown AUTH_STORE %q", c.Store)
	}
	return nil
}

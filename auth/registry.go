package auth

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Registry is the authoritative email → account store.
type Registry struct {
	accounts Repository
	now      func() time.Time
}

func NewRegistry(accounts Repository) *Registry {
	return &Registry{accounts: accounts, now: time.Now}
}

// Register inserts a new account keyed by email. At most one call per email succeeds;
// the others get a *DuplicateEmailError.
func (reg *Registry) Register(ctx context.Context, email, username, passwordHash string) (*Account, error) {
	email = NormalizeEmail(email)
	acc := &Account{
		ID:          NewID(),
		Credentials: Credentials{Username: username, Email: email, Password: passwordHash},
		CreatedAt:   reg.now().UTC(),
	}

	if err := reg.accounts.Store(ctx, acc); err != nil {
		if errors.Is(err, ErrExistingEmail) {
			return nil, &DuplicateEmailError{Email: email}
		}
		return nil, fmt.Errorf("error saving account: %w", err)
	}
	return acc, nil
}

func (reg *Registry) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return reg.accounts.FindByEmail(ctx, NormalizeEmail(email))
}

func (reg *Registry) FindByID(ctx context.Context, id ID) (*Account, error) {
	return reg.accounts.FindByID(ctx, id)
}

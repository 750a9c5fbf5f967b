package auth

import (
	"context"
	"sync"
)

type accountRepository struct {
	mu       sync.RWMutex
	accounts map[ID]*Account
	byEmail  map[string]ID
}

func NewAccountRepository() Repository {
	return &accountRepository{accounts: map[ID]*Account{}, byEmail: map[string]ID{}}
}

func (repo *accountRepository) Store(_ context.Context, acc *Account) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.byEmail[acc.Credentials.Email]; ok {
		return ErrExistingEmail
	}
	stored := *acc
	repo.accounts[acc.ID] = &stored
	repo.byEmail[acc.Credentials.Email] = acc.ID
	return nil
}

func (repo *accountRepository) FindByID(_ context.Context, id ID) (*Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	if a, ok := repo.accounts[id]; ok {
		acc := *a
		return &acc, nil
	}
	return nil, ErrNotFound
}

func (repo *accountRepository) FindByEmail(_ context.Context, email string) (*Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	if id, ok := repo.byEmail[email]; ok {
		acc := *repo.accounts[id]
		return &acc, nil
	}
	return nil, ErrNotFound
}

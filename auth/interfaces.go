package auth

import "context"

type Service interface {
	RegisterAccount(ctx context.Context, r RegisterAccountRequest) (ID, error)
	Login(ctx context.Context, r LoginRequest) (Token, error)
	GetAccount(ctx context.Context, id ID) (*Account, error)
	Seed(ctx context.Context, seeds []SeedAccount) (int, error)
}

// Repository stores accounts. Store must reject a second account with the
// same email atomically, returning ErrExistingEmail.
type Repository interface {
	FindByID(ctx context.Context, id ID) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	Store(ctx context.Context, acc *Account) error
}

type RegisterAccountRequest struct {
	Email    string `json:"email"`
	Username string `json:"userName"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email, Password string
}

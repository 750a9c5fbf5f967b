package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

const DefaultHashCost = 12

type service struct {
	registry  *Registry
	validator *Validator
	tokens    *Tokens
	hashCost  int
	logger    *slog.Logger

	// compared against on unknown emails so both login failures cost the same
	dummyHash string
}

type Option func(*service)

func WithHashCost(cost int) Option {
	return func(s *service) { s.hashCost = cost }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *service) { s.logger = l }
}

func WithValidator(v *Validator) Option {
	return func(s *service) { s.validator = v }
}

func NewService(accounts Repository, tokens *Tokens, opts ...Option) (Service, error) {
	svc := &service{
		registry:  NewRegistry(accounts),
		validator: NewValidator(),
		tokens:    tokens,
		hashCost:  DefaultHashCost,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.hashCost < bcrypt.MinCost || svc.hashCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", svc.hashCost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	h, err := hashPassword(string(NewID()), svc.hashCost)
	if err != nil {
		return nil, err
	}
	svc.dummyHash = h
	return svc, nil
}

func (svc *service) RegisterAccount(ctx context.Context, r RegisterAccountRequest) (ID, error) {
	r.Email = NormalizeEmail(r.Email)
	if err := svc.validator.Validate(r); err != nil {
		return "", err
	}

	hash, err := hashPassword(r.Password, svc.hashCost)
	if err != nil {
		return "", err
	}

	acc, err := svc.registry.Register(ctx, r.Email, r.Username, hash)
	if err != nil {
		return "", err
	}

	svc.logger.InfoContext(ctx, "account registered", "id", acc.ID, "email", acc.Credentials.Email)
	return acc.ID, nil
}

func (svc *service) Login(ctx context.Context, r LoginRequest) (Token, error) {
	acc, err := svc.registry.FindByEmail(ctx, r.Email)
	switch {
	case errors.Is(err, ErrNotFound):
		hashMatchesPassword(svc.dummyHash, r.Password)
		svc.logger.InfoContext(ctx, "login failed", "email", NormalizeEmail(r.Email))
		return Token{}, ErrInvalidCredentials
	case err != nil:
		return Token{}, fmt.Errorf("error finding account: %w", err)
	}

	if !hashMatchesPassword(acc.Credentials.Password, r.Password) {
		svc.logger.InfoContext(ctx, "login failed", "email", acc.Credentials.Email)
		return Token{}, ErrInvalidCredentials
	}

	return svc.tokens.Issue(acc)
}

func (svc *service) GetAccount(ctx context.Context, id ID) (*Account, error) {
	return svc.registry.FindByID(ctx, id)
}

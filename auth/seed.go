package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// SeedAccount is an account created at startup. Seeds skip the password rules.
type SeedAccount struct {
	Email, Username, Password string
}

// UnmarshalText parses "email:userName:password". The password may contain colons.
func (s *SeedAccount) UnmarshalText(text []byte) error {
	parts := strings.SplitN(strings.TrimSpace(string(text)), ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		return fmt.Errorf("seed account %q: want email:userName:password", string(text))
	}
	s.Email, s.Username, s.Password = parts[0], parts[1], parts[2]
	return nil
}

// Seed registers seeds that are not present yet and reports how many were created.
func (svc *service) Seed(ctx context.Context, seeds []SeedAccount) (int, error) {
	created := 0
	for _, s := range seeds {
		hash, err := hashPassword(s.Password, svc.hashCost)
		if err != nil {
			return created, err
		}

		acc, err := svc.registry.Register(ctx, s.Email, s.Username, hash)
		if errors.Is(err, ErrExistingEmail) {
			svc.logger.InfoContext(ctx, "seed account exists", "email", NormalizeEmail(s.Email))
			continue
		}
		if err != nil {
			return created, fmt.Errorf("error seeding %s: %w", s.Email, err)
		}

		svc.logger.InfoContext(ctx, "seed account created", "id", acc.ID, "email", acc.Credentials.Email)
		created++
	}
	return created, nil
}

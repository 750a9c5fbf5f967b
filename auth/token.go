package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

const tokenIssuer = "auth"

// Token is a signed session token handed to an authenticated caller.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Claims identify the account a token was issued for.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Tokens issues and verifies HS256 session tokens.
type Tokens struct {
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

func NewTokens(signingKey []byte, ttl time.Duration) *Tokens {
	return &Tokens{signingKey: signingKey, ttl: ttl, now: time.Now}
}

// Issue signs a fresh token for acc. Every call gets its own jti.
func (t *Tokens) Issue(acc *Account) (Token, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   string(acc.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        xid.New().String(),
		},
		Email: acc.Credentials.Email,
	}

	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.signingKey)
	if err != nil {
		return Token{}, fmt.Errorf("error signing token: %w", err)
	}
	return Token{Value: s, ExpiresAt: exp}, nil
}

// Parse verifies a token and returns its claims. Any failure is ErrInvalidToken.
func (t *Tokens) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(tok *jwt.Token) (interface{}, error) {
		return t.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

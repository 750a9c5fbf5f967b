package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/rs/xid"
)

// AccountClassName is the entity name reported in conflict and credential errors.
const AccountClassName = "UserAccount"

type Account struct {
	ID          ID
	Credentials Credentials
	CreatedAt   time.Time
}

type ID string

//Credentials holds the account's sensitive information
type Credentials struct {
	Username,
	Email,
	Password string
}

var (
	ErrExistingEmail      = errors.New("email in use")
	ErrNotFound           = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// DuplicateEmailError is returned when an email is already registered.
type DuplicateEmailError struct {
	Email string
}

func (e *DuplicateEmailError) Error() string {
	return fmt.Sprintf("User already exist with this email: %s", e.Email)
}

func (e *DuplicateEmailError) Unwrap() error { return ErrExistingEmail }

// ClassName names the entity the conflict is about.
func (e *DuplicateEmailError) ClassName() string { return AccountClassName }

// NormalizeEmail trims and lower-cases an address. Every lookup and insert goes through it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func NewID() ID {
	return ID(xid.New().String())
}

func isValidID(id string) bool {
	if _, err := xid.FromString(id); err != nil {
		return false
	}
	return true
}

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return string(hash), nil
}

func hashMatchesPassword(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

package auth

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testSigningKey = []byte("test-signing-key")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, accounts Repository) (*service, *Tokens) {
	t.Helper()
	tokens := NewTokens(testSigningKey, time.Hour)
	svc, err := NewService(accounts, tokens, WithHashCost(bcrypt.MinCost), WithLogger(discardLogger()))
	require.NoError(t, err)
	return svc.(*service), tokens
}

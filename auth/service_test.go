package auth

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_RegisterAccount(t *testing.T) {
	ctx := context.Background()
	accounts := NewAccountRepository()
	svc, _ := newTestService(t, accounts)

	tests := []struct {
		req     RegisterAccountRequest
		wantErr string
		wantAcc bool
	}{
		{req: RegisterAccountRequest{"email@gmail.com", "yes", "a"}, wantErr: "validation failed"},
		{req: RegisterAccountRequest{"email@gmail.com", "yes", "aA12aaaaaa"}, wantAcc: true},
		{req: RegisterAccountRequest{"email@gmail.com", "yes", "aA12testTest"}, wantErr: "User already exist with this email: email@gmail.com"},
		{req: RegisterAccountRequest{" EMAIL@gmail.com", "other", "aA12testTest"}, wantErr: "User already exist with this email: email@gmail.com"},
		{req: RegisterAccountRequest{"asd@asd.com", "yes", "aA12testTest"}, wantAcc: true},
	}

	for _, tt := range tests {
		id, err := svc.RegisterAccount(ctx, tt.req)

		if tt.wantErr != "" {
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Empty(t, id)
			continue
		}

		require.NoError(t, err)
		assert.True(t, isValidID(string(id)))

		acc, err := accounts.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, NormalizeEmail(tt.req.Email), acc.Credentials.Email)
		assert.Equal(t, tt.req.Username, acc.Credentials.Username)
		assert.NotEqual(t, tt.req.Password, acc.Credentials.Password)
		assert.True(t, hashMatchesPassword(acc.Credentials.Password, tt.req.Password))
		assert.False(t, acc.CreatedAt.IsZero())
	}
}

func TestService_ConcurrentRegistrationSameEmail(t *testing.T) {
	svc, _ := newTestService(t, NewAccountRepository())
	assertSingleWinner(t, svc, 16)
}

func assertSingleWinner(t *testing.T, svc Service, n int) {
	t.Helper()
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		successes  int
		duplicates int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RegisterAccount(context.Background(), RegisterAccountRequest{"race@example.com", "racer", "aA12testTest"})

			mu.Lock()
			defer mu.Unlock()
			var dup *DuplicateEmailError
			switch {
			case err == nil:
				successes++
			case errors.As(err, &dup):
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, duplicates)
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newTestService(t, NewAccountRepository())
	id, err := svc.RegisterAccount(ctx, RegisterAccountRequest{"email@gmail.com", "yes", "aA12testTest"})
	require.NoError(t, err)

	tests := []struct {
		email, password string
		wantErr         error
	}{
		{"email@gmail.com", "aA12testTest", nil},
		{"Email@Gmail.com", "aA12testTest", nil},
		{"email@gmail.com", "wrong", ErrInvalidCredentials},
		{"nobody@gmail.com", "aA12testTest", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		token, err := svc.Login(ctx, LoginRequest{tt.email, tt.password})
		if tt.wantErr != nil {
			assert.Equal(t, tt.wantErr, err)
			assert.Empty(t, token.Value)
			continue
		}

		require.NoError(t, err)
		claims, err := tokens.Parse(token.Value)
		require.NoError(t, err)
		assert.Equal(t, string(id), claims.Subject)
		assert.Equal(t, "email@gmail.com", claims.Email)
	}
}

func TestService_LoginIssuesFreshTokens(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, NewAccountRepository())
	_, err := svc.RegisterAccount(ctx, RegisterAccountRequest{"email@gmail.com", "yes", "aA12testTest"})
	require.NoError(t, err)

	t1, err := svc.Login(ctx, LoginRequest{"email@gmail.com", "aA12testTest"})
	require.NoError(t, err)
	t2, err := svc.Login(ctx, LoginRequest{"email@gmail.com", "aA12testTest"})
	require.NoError(t, err)

	assert.NotEqual(t, t1.Value, t2.Value)
}

func TestService_GetAccount(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, NewAccountRepository())
	id, err := svc.RegisterAccount(ctx, RegisterAccountRequest{"email@gmail.com", "yes", "aA12testTest"})
	require.NoError(t, err)

	acc, err := svc.GetAccount(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "yes", acc.Credentials.Username)

	_, err = svc.GetAccount(ctx, NewID())
	assert.Equal(t, ErrNotFound, err)
}

func TestNewService_RejectsBadCost(t *testing.T) {
	_, err := NewService(NewAccountRepository(), NewTokens(testSigningKey, 0), WithHashCost(1))

	assert.Error(t, err)
}

type failingRepository struct{ err error }

func (f failingRepository) FindByID(context.Context, ID) (*Account, error)        { return nil, f.err }
func (f failingRepository) FindByEmail(context.Context, string) (*Account, error) { return nil, f.err }
func (f failingRepository) Store(context.Context, *Account) error                 { return f.err }

func TestService_PropagatesStoreFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	svc, _ := newTestService(t, failingRepository{err: boom})

	_, err := svc.RegisterAccount(ctx, RegisterAccountRequest{"email@gmail.com", "yes", "aA12testTest"})
	assert.True(t, errors.Is(err, boom))

	_, err = svc.Login(ctx, LoginRequest{"email@gmail.com", "aA12testTest"})
	assert.True(t, errors.Is(err, boom))
	assert.False(t, errors.Is(err, ErrInvalidCredentials))
}

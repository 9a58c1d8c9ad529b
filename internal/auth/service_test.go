package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopledger/shopledger/internal/platform/httpx"
	"github.com/shopledger/shopledger/internal/shared"
	"github.com/shopledger/shopledger/internal/users"
)

type memoryStore struct {
	byEmail map[string]users.User
}

func (m *memoryStore) GetByEmail(ctx context.Context, email string) (users.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return users.User{}, httpx.ErrNotFound
	}
	return u, nil
}

func storeWithUser(t *testing.T, email, password string, active bool) *memoryStore {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &memoryStore{byEmail: map[string]users.User{
		email: {ID: 1, Username: "owner", Email: email, IsActive: active, PasswordHash: string(hash)},
	}}
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(storeWithUser(t, "owner@shop.in", "secret123", true))

	u, err := svc.Authenticate(context.Background(), "owner@shop.in", "secret123")
	require.NoError(t, err)
	require.Equal(t, int64(1), u.ID)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc := NewService(storeWithUser(t, "owner@shop.in", "secret123", true))

	_, err := svc.Authenticate(context.Background(), "owner@shop.in", "wrong")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	svc := NewService(&memoryStore{byEmail: map[string]users.User{}})

	_, err := svc.Authenticate(context.Background(), "ghost@shop.in", "whatever")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateInactiveAccount(t *testing.T) {
	svc := NewService(storeWithUser(t, "owner@shop.in", "secret123", false))

	_, err := svc.Authenticate(context.Background(), "owner@shop.in", "secret123")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

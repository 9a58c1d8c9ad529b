package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopledger/shopledger/internal/platform/httpx"
	"github.com/shopledger/shopledger/internal/shared"
)

type memoryRepo struct {
	nextID    int64
	users     map[int64]User
	locations map[int64]LocationUpdate
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, users: map[int64]User{}, locations: map[int64]LocationUpdate{}}
}

func (m *memoryRepo) List(ctx context.Context) ([]User, error) {
	out := make([]User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *memoryRepo) Get(ctx context.Context, id int64) (User, error) {
	u, ok := m.users[id]
	if !ok {
		return User{}, httpx.ErrNotFound
	}
	return u, nil
}

func (m *memoryRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, httpx.ErrNotFound
}

func (m *memoryRepo) Create(ctx context.Context, u User) (User, error) {
	for _, existing := range m.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return User{}, httpx.ErrDuplicate
		}
	}
	u.ID = m.nextID
	m.nextID++
	u.IsActive = true
	m.users[u.ID] = u
	return u, nil
}

func (m *memoryRepo) UpdateLocation(ctx context.Context, id int64, loc LocationUpdate) error {
	if _, ok := m.users[id]; !ok {
		return httpx.ErrNotFound
	}
	m.locations[id] = loc
	return nil
}

func (m *memoryRepo) SetActive(ctx context.Context, id int64, active bool) error {
	u, ok := m.users[id]
	if !ok {
		return httpx.ErrNotFound
	}
	u.IsActive = active
	m.users[id] = u
	return nil
}

func elevatedOp() shared.Operator {
	return shared.Operator{UserID: 1, Name: "owner", Elevated: true}
}

func TestCreateHashesPassword(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)

	u, err := svc.Create(context.Background(), elevatedOp(), CreateRequest{
		Username: "ramesh",
		Email:    "Ramesh@Example.com",
		Password: "correct horse",
		Role:     RoleManager,
	})
	require.NoError(t, err)
	require.Equal(t, "ramesh@example.com", u.Email)
	require.NotEqual(t, "correct horse", repo.users[u.ID].PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.users[u.ID].PasswordHash), []byte("correct horse")))
}

func TestCreateRejectsInvalidRole(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	_, err := svc.Create(context.Background(), elevatedOp(), CreateRequest{
		Username: "ramesh",
		Email:    "ramesh@example.com",
		Password: "correct horse",
		Role:     "admin",
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateElevatedGrantNeedsElevatedOperator(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	plain := shared.Operator{UserID: 2, Name: "staff"}
	_, err := svc.Create(context.Background(), plain, CreateRequest{
		Username: "suresh",
		Email:    "suresh@example.com",
		Password: "correct horse",
		Role:     RolePartner,
		Elevated: true,
	})
	require.ErrorIs(t, err, httpx.ErrForbidden)

	// A plain operator can still create an unprivileged account.
	_, err = svc.Create(context.Background(), plain, CreateRequest{
		Username: "suresh",
		Email:    "suresh@example.com",
		Password: "correct horse",
		Role:     RolePartner,
	})
	require.NoError(t, err)
}

func TestUpdateLocationRequiresKnownOperator(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)

	u, err := svc.Create(context.Background(), elevatedOp(), CreateRequest{
		Username: "ramesh",
		Email:    "ramesh@example.com",
		Password: "correct horse",
		Role:     RoleManager,
	})
	require.NoError(t, err)

	err = svc.UpdateLocation(context.Background(), shared.Operator{}, LocationUpdate{})
	require.ErrorIs(t, err, httpx.ErrUnauthorized)

	city := "Jaipur"
	op := shared.Operator{UserID: u.ID, Name: u.Username}
	require.NoError(t, svc.UpdateLocation(context.Background(), op, LocationUpdate{City: &city}))
	require.Equal(t, &city, repo.locations[u.ID].City)
}

func TestDeactivateRequiresElevated(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)

	u, err := svc.Create(context.Background(), elevatedOp(), CreateRequest{
		Username: "ramesh",
		Email:    "ramesh@example.com",
		Password: "correct horse",
		Role:     RoleManager,
	})
	require.NoError(t, err)

	err = svc.Deactivate(context.Background(), shared.Operator{UserID: 2}, u.ID)
	require.ErrorIs(t, err, httpx.ErrForbidden)

	require.NoError(t, svc.Deactivate(context.Background(), elevatedOp(), u.ID))
	require.False(t, repo.users[u.ID].IsActive)
}

package returns

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shopledger/shopledger/internal/platform/httpx"
	"github.com/shopledger/shopledger/internal/shared"
)

type memoryRepo struct {
	returns map[int64]Return
	next    int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{returns: map[int64]Return{}, next: 1}
}

func (m *memoryRepo) List(ctx context.Context, filters ListFilters) ([]Return, int, error) {
	var out []Return
	for _, r := range m.returns {
		if filters.Processed != nil && r.IsProcessed != *filters.Processed {
			continue
		}
		out = append(out, r)
	}
	return out, len(out), nil
}

func (m *memoryRepo) Get(ctx context.Context, id int64) (Return, error) {
	r, ok := m.returns[id]
	if !ok {
		return Return{}, httpx.ErrNotFound
	}
	return r, nil
}

func (m *memoryRepo) Create(ctx context.Context, ret Return) (Return, error) {
	ret.ID = m.next
	m.next++
	ret.CreatedAt = time.Now()
	ret.LastUpdated = ret.CreatedAt
	m.returns[ret.ID] = ret
	return ret, nil
}

func (m *memoryRepo) DeletePending(ctx context.Context, id int64) error {
	r, ok := m.returns[id]
	if !ok || r.IsProcessed {
		return httpx.ErrConflict
	}
	delete(m.returns, id)
	return nil
}

var op = shared.Operator{UserID: 1, Name: "owner"}

func TestCreateReturn(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	ret, err := svc.Create(context.Background(), op, CreateRequest{StockID: 1, Quantity: 5})
	require.NoError(t, err)
	require.False(t, ret.IsProcessed)
	require.Equal(t, int64(5), ret.Quantity)
}

func TestCreateReturnValidates(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	_, err := svc.Create(context.Background(), op, CreateRequest{StockID: 1, Quantity: 0})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(context.Background(), op, CreateRequest{Quantity: 5})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestDeleteProcessedReturnBlocked(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)

	ret, err := svc.Create(context.Background(), op, CreateRequest{StockID: 1, Quantity: 2})
	require.NoError(t, err)

	processed := repo.returns[ret.ID]
	processed.IsProcessed = true
	repo.returns[ret.ID] = processed

	err = svc.Delete(context.Background(), op, ret.ID)
	require.ErrorIs(t, err, httpx.ErrConflict)
}

package purchases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shopledger/shopledger/internal/platform/httpx"
	"github.com/shopledger/shopledger/internal/shared"
)

type memoryRepo struct {
	purchases map[int64]Purchase
	next      int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{purchases: map[int64]Purchase{}, next: 1}
}

func (m *memoryRepo) List(ctx context.Context, filters ListFilters) ([]Purchase, int, error) {
	var out []Purchase
	for _, p := range m.purchases {
		if filters.Received != nil && p.IsReceived != *filters.Received {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (m *memoryRepo) Aggregate(ctx context.Context, filters ListFilters) (Aggregates, error) {
	var agg Aggregates
	for _, p := range m.purchases {
		agg.TotalCost += p.TotalCost
		agg.TotalQuantity += p.Quantity
	}
	return agg, nil
}

func (m *memoryRepo) Get(ctx context.Context, id int64) (Purchase, error) {
	p, ok := m.purchases[id]
	if !ok {
		return Purchase{}, httpx.ErrNotFound
	}
	return p, nil
}

func (m *memoryRepo) Create(ctx context.Context, p Purchase) (Purchase, error) {
	p.ID = m.next
	m.next++
	p.CreatedAt = time.Now()
	p.LastUpdated = p.CreatedAt
	m.purchases[p.ID] = p
	return p, nil
}

func (m *memoryRepo) Update(ctx context.Context, id int64, p Purchase) error {
	existing, ok := m.purchases[id]
	if !ok || existing.IsReceived {
		return httpx.ErrConflict
	}
	p.ID = id
	p.StockID = existing.StockID
	m.purchases[id] = p
	return nil
}

func (m *memoryRepo) DeletePending(ctx context.Context, id int64) error {
	existing, ok := m.purchases[id]
	if !ok || existing.IsReceived {
		return httpx.ErrConflict
	}
	delete(m.purchases, id)
	return nil
}

var op = shared.Operator{UserID: 1, Name: "owner"}

func TestCreateDerivesTotalsAndMinimumSellingPrice(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	p, err := svc.Create(context.Background(), op, CreateRequest{
		StockID:          1,
		Quantity:         10,
		CostPricePerUnit: 100,
	})
	require.NoError(t, err)
	require.Equal(t, float64(1000), p.TotalCost)
	require.Equal(t, float64(125), p.SellingPrice)
	require.False(t, p.IsReceived)
}

func TestCreateRoundsSellingPriceToTwoPlaces(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	p, err := svc.Create(context.Background(), op, CreateRequest{
		StockID:          1,
		Quantity:         3,
		CostPricePerUnit: 99.99,
	})
	require.NoError(t, err)
	// 99.99 / 0.8 = 124.9875, stored to the paisa.
	require.Equal(t, 124.99, p.SellingPrice)
}

func TestCreateDefaultsPurchaseDateToToday(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	p, err := svc.Create(context.Background(), op, CreateRequest{
		StockID:          1,
		Quantity:         1,
		CostPricePerUnit: 50,
	})
	require.NoError(t, err)
	now := time.Now()
	require.Equal(t, now.Year(), p.PurchaseDate.Year())
	require.Equal(t, now.Month(), p.PurchaseDate.Month())
	require.Equal(t, now.Day(), p.PurchaseDate.Day())
}

func TestCreateRejectsInvalidPayload(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	_, err := svc.Create(context.Background(), op, CreateRequest{StockID: 1, Quantity: 0, CostPricePerUnit: 10})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(context.Background(), op, CreateRequest{StockID: 1, Quantity: 5, CostPricePerUnit: 10, PurchaseDate: "31-01-2025"})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdateRecomputesDerivedColumns(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)

	p, err := svc.Create(context.Background(), op, CreateRequest{StockID: 1, Quantity: 10, CostPricePerUnit: 100})
	require.NoError(t, err)

	err = svc.Update(context.Background(), op, p.ID, UpdateRequest{Quantity: 4, CostPricePerUnit: 200})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, float64(800), got.TotalCost)
	require.Equal(t, float64(250), got.SellingPrice)
}

func TestReceivedLinesAreImmutable(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)

	p, err := svc.Create(context.Background(), op, CreateRequest{StockID: 1, Quantity: 2, CostPricePerUnit: 100})
	require.NoError(t, err)

	received := repo.purchases[p.ID]
	received.IsReceived = true
	repo.purchases[p.ID] = received

	err = svc.Update(context.Background(), op, p.ID, UpdateRequest{Quantity: 5, CostPricePerUnit: 120})
	require.ErrorIs(t, err, httpx.ErrConflict)

	err = svc.Delete(context.Background(), op, p.ID)
	require.ErrorIs(t, err, httpx.ErrConflict)
}

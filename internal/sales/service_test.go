package sales

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shopledger/shopledger/internal/platform/httpx"
	"github.com/shopledger/shopledger/internal/shared"
)

type memoryRepo struct {
	sales  map[int64]Sale
	stocks map[int64]StockSnapshot
	next   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{sales: map[int64]Sale{}, stocks: map[int64]StockSnapshot{}, next: 1}
}

func (m *memoryRepo) List(ctx context.Context, filters ListFilters) ([]Sale, int, error) {
	var out []Sale
	for _, s := range m.sales {
		out = append(out, s)
	}
	return out, len(out), nil
}

func (m *memoryRepo) Aggregate(ctx context.Context, filters ListFilters) (Aggregates, error) {
	var agg Aggregates
	for _, s := range m.sales {
		agg.Revenue += s.TotalAmount
		agg.TotalQuantity += s.Quantity
		agg.GrossProfit += s.GrossProfit
	}
	if agg.Revenue > 0 {
		agg.Margin = agg.GrossProfit / agg.Revenue * 100
	}
	return agg, nil
}

func (m *memoryRepo) Get(ctx context.Context, id int64) (Sale, error) {
	s, ok := m.sales[id]
	if !ok {
		return Sale{}, httpx.ErrNotFound
	}
	return s, nil
}

func (m *memoryRepo) Create(ctx context.Context, sale Sale) (Sale, error) {
	sale.ID = m.next
	m.next++
	sale.SoldOn = time.Now()
	m.sales[sale.ID] = sale
	return sale, nil
}

func (m *memoryRepo) DeletePending(ctx context.Context, id int64) error {
	s, ok := m.sales[id]
	if !ok || s.IsVerified {
		return httpx.ErrConflict
	}
	delete(m.sales, id)
	return nil
}

func (m *memoryRepo) StockSnapshot(ctx context.Context, stockID int64) (StockSnapshot, error) {
	snap, ok := m.stocks[stockID]
	if !ok {
		return StockSnapshot{}, httpx.ErrNotFound
	}
	return snap, nil
}

func (m *memoryRepo) ReportRows(ctx context.Context, from, to time.Time) ([]ReportRow, error) {
	var out []ReportRow
	for _, s := range m.sales {
		if !s.IsVerified {
			continue
		}
		day := s.SoldOn.Truncate(24 * time.Hour)
		if day.Before(from) || day.After(to) {
			continue
		}
		out = append(out, ReportRow{
			SoldOn: s.SoldOn, StockName: s.StockName, Quantity: s.Quantity,
			SellingPrice: s.SellingPrice, TotalAmount: s.TotalAmount, GrossProfit: s.GrossProfit,
		})
	}
	return out, nil
}

func (m *memoryRepo) DateBounds(ctx context.Context) (time.Time, time.Time, bool, error) {
	var earliest, latest time.Time
	found := false
	for _, s := range m.sales {
		if !s.IsVerified {
			continue
		}
		if !found || s.SoldOn.Before(earliest) {
			earliest = s.SoldOn
		}
		if !found || s.SoldOn.After(latest) {
			latest = s.SoldOn
		}
		found = true
	}
	return earliest, latest, found, nil
}

var op = shared.Operator{UserID: 1, Name: "owner"}

func TestCreatePricesProfitAgainstCurrentCost(t *testing.T) {
	repo := newMemoryRepo()
	repo.stocks[1] = StockSnapshot{ID: 1, Name: "Mens Shirt", CostPrice: 100, Quantity: 20}
	svc := NewService(repo, nil, nil)

	sale, err := svc.Create(context.Background(), op, CreateRequest{StockID: 1, Quantity: 4, SellingPrice: 150})
	require.NoError(t, err)
	require.Equal(t, float64(600), sale.TotalAmount)
	require.Equal(t, float64(200), sale.GrossProfit)
	require.False(t, sale.IsVerified)
	require.False(t, sale.SoldOn.IsZero())
}

func TestCreateRejectsQuantityBeyondOnHand(t *testing.T) {
	repo := newMemoryRepo()
	repo.stocks[1] = StockSnapshot{ID: 1, Name: "Mens Shirt", CostPrice: 100, Quantity: 3}
	svc := NewService(repo, nil, nil)

	_, err := svc.Create(context.Background(), op, CreateRequest{StockID: 1, Quantity: 4, SellingPrice: 150})
	require.ErrorIs(t, err, ErrExceedsAvailable)
}

func TestCreateUnknownStock(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	_, err := svc.Create(context.Background(), op, CreateRequest{StockID: 99, Quantity: 1, SellingPrice: 10})
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestDeleteVerifiedSaleBlocked(t *testing.T) {
	repo := newMemoryRepo()
	repo.stocks[1] = StockSnapshot{ID: 1, Name: "Mens Shirt", CostPrice: 100, Quantity: 10}
	svc := NewService(repo, nil, nil)

	sale, err := svc.Create(context.Background(), op, CreateRequest{StockID: 1, Quantity: 1, SellingPrice: 150})
	require.NoError(t, err)

	verified := repo.sales[sale.ID]
	verified.IsVerified = true
	repo.sales[sale.ID] = verified

	err = svc.Delete(context.Background(), op, sale.ID)
	require.ErrorIs(t, err, httpx.ErrConflict)
}

func TestReportWindowDefaultsToVerifiedBounds(t *testing.T) {
	repo := newMemoryRepo()
	repo.stocks[1] = StockSnapshot{ID: 1, Name: "Mens Shirt", CostPrice: 100, Quantity: 10}
	svc := NewService(repo, nil, nil)

	repo.sales[10] = Sale{ID: 10, IsVerified: true, SoldOn: time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)}
	repo.sales[11] = Sale{ID: 11, IsVerified: true, SoldOn: time.Date(2025, 6, 20, 18, 0, 0, 0, time.UTC)}
	repo.sales[12] = Sale{ID: 12, IsVerified: false, SoldOn: time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)}

	from, to, err := svc.ReportWindow(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), from)
	require.Equal(t, time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC), to)
}

func TestReportWindowFallsBackToToday(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	from, to, err := svc.ReportWindow(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Equal(t, from, to)
	require.Equal(t, time.Now().Day(), from.Day())
}

func TestReportWindowHonoursExplicitRange(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	from, to, err := svc.ReportWindow(context.Background(), &start, &end)
	require.NoError(t, err)
	require.Equal(t, start, from)
	require.Equal(t, end, to)
}

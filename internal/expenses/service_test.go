package expenses

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shopledger/shopledger/internal/platform/httpx"
	"github.com/shopledger/shopledger/internal/shared"
)

type memoryRepo struct {
	expenses map[int64]Expense
	next     int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{expenses: map[int64]Expense{}, next: 1}
}

func (m *memoryRepo) List(ctx context.Context, filters ListFilters) ([]Expense, int, error) {
	var out []Expense
	for _, e := range m.expenses {
		if filters.Type != "" && e.Type != filters.Type {
			continue
		}
		out = append(out, e)
	}
	return out, len(out), nil
}

func (m *memoryRepo) TotalsByType(ctx context.Context, filters ListFilters) (float64, []TypeTotal, error) {
	var grand float64
	byType := map[string]*TypeTotal{}
	for _, e := range m.expenses {
		if filters.Type != "" && e.Type != filters.Type {
			continue
		}
		grand += e.Amount
		t, ok := byType[e.Type]
		if !ok {
			t = &TypeTotal{Type: e.Type}
			byType[e.Type] = t
		}
		t.TotalAmount += e.Amount
		t.Count++
	}
	var out []TypeTotal
	for _, t := range byType {
		out = append(out, *t)
	}
	return grand, out, nil
}

func (m *memoryRepo) Get(ctx context.Context, id int64) (Expense, error) {
	e, ok := m.expenses[id]
	if !ok {
		return Expense{}, httpx.ErrNotFound
	}
	return e, nil
}

func (m *memoryRepo) Create(ctx context.Context, e Expense) (Expense, error) {
	e.ID = m.next
	m.next++
	e.CreatedAt = time.Now()
	m.expenses[e.ID] = e
	return e, nil
}

func (m *memoryRepo) Update(ctx context.Context, id int64, e Expense) error {
	if _, ok := m.expenses[id]; !ok {
		return httpx.ErrNotFound
	}
	e.ID = id
	m.expenses[id] = e
	return nil
}

func (m *memoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.expenses[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.expenses, id)
	return nil
}

var op = shared.Operator{UserID: 1, Name: "owner"}

func TestCreateExpense(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	e, err := svc.Create(context.Background(), op, CreateRequest{
		Type: "rent", Description: "shop rent", Amount: 12000, IncurredOn: "2025-08-01",
	})
	require.NoError(t, err)
	require.Equal(t, "rent", e.Type)
	require.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), e.IncurredOn)
}

func TestCreateRejectsUnknownType(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	_, err := svc.Create(context.Background(), op, CreateRequest{Type: "bribes", Amount: 100})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateDefaultsIncurredOnToToday(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	e, err := svc.Create(context.Background(), op, CreateRequest{Type: "misc", Amount: 50})
	require.NoError(t, err)
	require.Equal(t, time.Now().Day(), e.IncurredOn.Day())
}

func TestPerTypeRollup(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)

	for _, e := range []CreateRequest{
		{Type: "rent", Amount: 12000},
		{Type: "electricity", Amount: 1800},
		{Type: "electricity", Amount: 700},
	} {
		_, err := svc.Create(context.Background(), op, e)
		require.NoError(t, err)
	}

	_, _, grand, byType, err := svc.List(context.Background(), ListFilters{})
	require.NoError(t, err)
	require.Equal(t, float64(14500), grand)
	require.Len(t, byType, 2)

	for _, tt := range byType {
		if tt.Type == "electricity" {
			require.Equal(t, float64(2500), tt.TotalAmount)
			require.Equal(t, int64(2), tt.Count)
		}
	}
}

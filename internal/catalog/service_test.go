package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shopledger/shopledger/internal/platform/httpx"
	"github.com/shopledger/shopledger/internal/shared"
)

func TestCreateValidatesRequest(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)
	op := shared.Operator{UserID: 1}

	_, err := svc.Create(context.Background(), op, CreateStockRequest{Name: "x"})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(context.Background(), op, CreateStockRequest{
		CategoryID: 1, Name: "Mens Shirt", CostPrice: -5,
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateTrimsName(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)

	s, err := svc.Create(context.Background(), shared.Operator{UserID: 1}, CreateStockRequest{
		CategoryID: 1, Name: "  Mens Shirt  ", CostPrice: 100, Quantity: 2,
	})
	require.NoError(t, err)
	require.Equal(t, "Mens Shirt", s.Name)
}

func TestDeleteRequiresElevatedOperator(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)

	s, err := svc.Create(context.Background(), shared.Operator{UserID: 1}, CreateStockRequest{
		CategoryID: 1, Name: "Mens Shirt", CostPrice: 100,
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), shared.Operator{UserID: 2}, s.ID)
	require.ErrorIs(t, err, httpx.ErrForbidden)

	err = svc.Delete(context.Background(), shared.Operator{UserID: 1, Elevated: true}, s.ID)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), s.ID)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestUpdatePreservesQuantity(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)
	op := shared.Operator{UserID: 1}

	s, err := svc.Create(context.Background(), op, CreateStockRequest{
		CategoryID: 1, Name: "Mens Shirt", CostPrice: 100, Quantity: 7,
	})
	require.NoError(t, err)

	err = svc.Update(context.Background(), op, s.ID, UpdateStockRequest{
		CategoryID: 1, Name: "Mens Shirt Slim", CostPrice: 120, SellingPrice: 150,
	})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), s.ID)
	require.NoError(t, err)
	require.Equal(t, "Mens Shirt Slim", got.Name)
	require.Equal(t, int64(7), got.Quantity)
}

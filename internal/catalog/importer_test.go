package catalog

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/shopledger/shopledger/internal/platform/httpx"
	"github.com/shopledger/shopledger/internal/shared"
)

type memoryRepo struct {
	stocks     map[int64]Stock
	categories map[int64]Category
	nextStock  int64
	nextCat    int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		stocks:     map[int64]Stock{},
		categories: map[int64]Category{},
		nextStock:  1,
		nextCat:    1,
	}
}

func (m *memoryRepo) List(ctx context.Context, filters ListFilters) ([]Stock, int, error) {
	var out []Stock
	for _, s := range m.stocks {
		if filters.Search != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(filters.Search)) {
			continue
		}
		if filters.CategoryID != nil && s.CategoryID != *filters.CategoryID {
			continue
		}
		switch filters.StockLevel {
		case "low":
			if s.Quantity == 0 || s.Quantity > LowStockThreshold {
				continue
			}
		case "out_of_stock":
			if s.Quantity != 0 {
				continue
			}
		}
		out = append(out, s)
	}
	return out, len(out), nil
}

func (m *memoryRepo) Get(ctx context.Context, id int64) (Stock, error) {
	s, ok := m.stocks[id]
	if !ok {
		return Stock{}, httpx.ErrNotFound
	}
	return s, nil
}

func (m *memoryRepo) GetByName(ctx context.Context, name string) (Stock, error) {
	for _, s := range m.stocks {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	return Stock{}, httpx.ErrNotFound
}

func (m *memoryRepo) Create(ctx context.Context, stock Stock) (Stock, error) {
	for _, s := range m.stocks {
		if strings.EqualFold(s.Name, stock.Name) {
			return Stock{}, httpx.ErrDuplicate
		}
	}
	stock.ID = m.nextStock
	m.nextStock++
	m.stocks[stock.ID] = stock
	return stock, nil
}

func (m *memoryRepo) Update(ctx context.Context, id int64, stock Stock) error {
	existing, ok := m.stocks[id]
	if !ok {
		return httpx.ErrNotFound
	}
	stock.ID = id
	stock.Quantity = existing.Quantity
	m.stocks[id] = stock
	return nil
}

func (m *memoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.stocks[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.stocks, id)
	return nil
}

func (m *memoryRepo) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	for _, c := range m.categories {
		out = append(out, c)
	}
	return out, nil
}

func (m *memoryRepo) GetCategoryByName(ctx context.Context, name string) (Category, error) {
	for _, c := range m.categories {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return Category{}, httpx.ErrNotFound
}

func (m *memoryRepo) CreateCategory(ctx context.Context, name string) (Category, error) {
	for _, c := range m.categories {
		if strings.EqualFold(c.Name, name) {
			return Category{}, httpx.ErrDuplicate
		}
	}
	c := Category{ID: m.nextCat, Name: name}
	m.nextCat++
	m.categories[c.ID] = c
	return c, nil
}

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	for i, row := range rows {
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, val))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportCreatesStocksWithDerivedCategories(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)
	imp := NewImporter(svc)
	op := shared.Operator{UserID: 1, Name: "owner", Elevated: true}

	buf := workbook(t, [][]any{
		{"Stock", "Price", "Qty"},
		{"mens formal shoe", 450.0, 12},
		{"kids denim jean", 300.0, 8},
		{"umbrella", 150.0, 5},
	})

	report, err := imp.Import(context.Background(), op, buf)
	require.NoError(t, err)
	require.Equal(t, 3, report.Imported)
	require.Zero(t, report.Skipped)

	s, err := repo.GetByName(context.Background(), "Mens Formal Shoe")
	require.NoError(t, err)
	require.Equal(t, float64(450), s.CostPrice)
	require.Equal(t, int64(12), s.Quantity)

	cat, err := repo.GetCategoryByName(context.Background(), "Men's Shoes")
	require.NoError(t, err)
	require.Equal(t, s.CategoryID, cat.ID)

	_, err = repo.GetCategoryByName(context.Background(), "Miscellaneous")
	require.NoError(t, err)
}

func TestImportReusesExistingCategory(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)
	imp := NewImporter(svc)
	op := shared.Operator{UserID: 1, Name: "owner", Elevated: true}

	buf := workbook(t, [][]any{
		{"Stock", "Price", "Qty"},
		{"mens formal shoe", 450.0, 12},
		{"mens running shoe", 500.0, 6},
	})

	report, err := imp.Import(context.Background(), op, buf)
	require.NoError(t, err)
	require.Equal(t, 2, report.Imported)

	cats, err := repo.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 1)
}

func TestImportSkipsMalformedRows(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)
	imp := NewImporter(svc)
	op := shared.Operator{UserID: 1, Name: "owner", Elevated: true}

	buf := workbook(t, [][]any{
		{"Stock", "Price", "Qty"},
		{"", 100.0, 3},
		{"mens shirt", "not a number", 3},
		{"mens cargo", 250.0, -1},
		{"mens lower", 199.0, 4},
	})

	report, err := imp.Import(context.Background(), op, buf)
	require.NoError(t, err)
	require.Equal(t, 1, report.Imported)
	require.Equal(t, 3, report.Skipped)
	require.Len(t, report.Errors, 3)
}

func TestImportRejectsMissingHeader(t *testing.T) {
	repo := newMemoryRepo()
	imp := NewImporter(NewService(repo, nil, nil))

	buf := workbook(t, [][]any{
		{"Name", "Cost", "Count"},
		{"mens shirt", 100.0, 3},
	})

	_, err := imp.Import(context.Background(), shared.Operator{UserID: 1}, buf)
	require.Error(t, err)
	require.Contains(t, err.Error(), "header")
}

func TestImportDuplicateNameReported(t *testing.T) {
	repo := newMemoryRepo()
	imp := NewImporter(NewService(repo, nil, nil))
	op := shared.Operator{UserID: 1, Elevated: true}

	buf := workbook(t, [][]any{
		{"Stock", "Price", "Qty"},
		{"mens cargo", 250.0, 4},
		{"Mens Cargo", 260.0, 2},
	})

	report, err := imp.Import(context.Background(), op, buf)
	require.NoError(t, err)
	require.Equal(t, 1, report.Imported)
	require.Equal(t, 1, report.Skipped)
}

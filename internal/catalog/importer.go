package catalog

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/shopledger/shopledger/internal/shared"
)

// ImportReport summarises one spreadsheet import run.
type ImportReport struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// Importer loads stock rows from an xlsx workbook. The expected columns are
// Stock (name), Price (cost per unit) and Qty. Categories are derived from
// the item name and created on first use.
type Importer struct {
	service *Service
	titler  cases.Caser
}

func NewImporter(service *Service) *Importer {
	return &Importer{
		service: service,
		titler:  cases.Title(language.English),
	}
}

// Import reads the active sheet of the workbook and creates one stock row per
// data row. Malformed rows are skipped and reported, they never abort the run.
func (i *Importer) Import(ctx context.Context, op shared.Operator, r io.Reader) (ImportReport, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportReport{}, fmt.Errorf("catalog: open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return ImportReport{}, fmt.Errorf("catalog: read sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return ImportReport{}, fmt.Errorf("catalog: sheet %s has no data rows", sheet)
	}

	cols, err := headerIndex(rows[0])
	if err != nil {
		return ImportReport{}, err
	}

	var report ImportReport
	for n, row := range rows[1:] {
		line := n + 2
		name := i.titler.String(strings.TrimSpace(cell(row, cols.name)))
		if name == "" {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: empty stock name", line))
			continue
		}
		cost, err := strconv.ParseFloat(strings.TrimSpace(cell(row, cols.price)), 64)
		if err != nil || cost < 0 {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: bad price %q", line, cell(row, cols.price)))
			continue
		}
		qty, err := strconv.ParseInt(strings.TrimSpace(cell(row, cols.qty)), 10, 64)
		if err != nil || qty < 0 {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: bad quantity %q", line, cell(row, cols.qty)))
			continue
		}

		cat, err := i.service.ensureCategory(ctx, ClassifyName(name))
		if err != nil {
			return report, fmt.Errorf("catalog: ensure category for row %d: %w", line, err)
		}
		_, err = i.service.Create(ctx, op, CreateStockRequest{
			CategoryID: cat.ID,
			Name:       name,
			CostPrice:  cost,
			Quantity:   qty,
		})
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		report.Imported++
	}
	return report, nil
}

type columnIndex struct {
	name  int
	price int
	qty   int
}

func headerIndex(header []string) (columnIndex, error) {
	cols := columnIndex{name: -1, price: -1, qty: -1}
	for idx, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "stock":
			cols.name = idx
		case "price":
			cols.price = idx
		case "qty":
			cols.qty = idx
		}
	}
	if cols.name < 0 || cols.price < 0 || cols.qty < 0 {
		return cols, fmt.Errorf("catalog: header must contain Stock, Price and Qty columns")
	}
	return cols, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

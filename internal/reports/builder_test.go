package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shopledger/shopledger/internal/sales"
)

func sampleRows() []sales.ReportRow {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	return []sales.ReportRow{
		{SoldOn: day, StockName: "Men Shoes Sport", Quantity: 2, SellingPrice: 1500, TotalAmount: 3000, GrossProfit: 600},
		{SoldOn: day.AddDate(0, 0, 1), StockName: "Kids Sandals", Quantity: 5, SellingPrice: 400, TotalAmount: 2000, GrossProfit: 500},
		{SoldOn: day.AddDate(0, 0, 2), StockName: "Men Shoes Sport", Quantity: 1, SellingPrice: 1500, TotalAmount: 1500, GrossProfit: 300},
	}
}

func TestSummarise(t *testing.T) {
	s := Summarise(sampleRows())

	require.Equal(t, 3, s.Transactions)
	require.EqualValues(t, 8, s.UnitsSold)
	require.InDelta(t, 6500, s.Revenue, 0.001)
	require.InDelta(t, 1400, s.GrossProfit, 0.001)
	require.InDelta(t, 5100, s.TotalCost, 0.001)
	require.InDelta(t, 6500.0/3, s.AvgSaleValue, 0.001)
	require.InDelta(t, 1400.0/6500*100, s.ProfitMargin, 0.001)
	require.Equal(t, "Kids Sandals", s.TopProductName)
	require.EqualValues(t, 5, s.TopProductUnits)
}

func TestSummariseEmpty(t *testing.T) {
	s := Summarise(nil)

	require.Zero(t, s.Transactions)
	require.Zero(t, s.Revenue)
	require.Zero(t, s.AvgSaleValue)
	require.Zero(t, s.ProfitMargin)
	require.Empty(t, s.TopProductName)
}

func TestBuildHTML(t *testing.T) {
	from := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)

	html, err := BuildHTML(from, to, sampleRows())
	require.NoError(t, err)

	require.Contains(t, html, "SALES PERFORMANCE REPORT")
	require.Contains(t, html, "10 March 2024")
	require.Contains(t, html, "12 March 2024")
	require.Contains(t, html, "Men Shoes Sport")
	require.Contains(t, html, "Rs. 6,500")
	require.Contains(t, html, "Kids Sandals (5 pcs)")
	require.NotContains(t, html, "No sales transactions recorded")
}

func TestBuildHTMLEmptyWindow(t *testing.T) {
	from := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	html, err := BuildHTML(from, from, nil)
	require.NoError(t, err)

	require.Contains(t, html, "No sales transactions recorded")
	require.Contains(t, html, "N/A")
}

func TestFilename(t *testing.T) {
	from := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)

	require.Equal(t, "Sales_Report_2024-03-10_to_2024-04-02.pdf", Filename(from, to))
}

package reports

import (
	"bytes"
	"html/template"
	"time"

	"github.com/shopledger/shopledger/internal/dashboard"
	"github.com/shopledger/shopledger/internal/sales"
)

// Summary is the executive header of a sales report.
type Summary struct {
	Transactions    int
	UnitsSold       int64
	Revenue         float64
	GrossProfit     float64
	TotalCost       float64
	AvgSaleValue    float64
	ProfitMargin    float64
	TopProductName  string
	TopProductUnits int64
}

// Summarise derives the report header from the rows.
func Summarise(rows []sales.ReportRow) Summary {
	var s Summary
	byProduct := map[string]int64{}
	for _, row := range rows {
		s.Transactions++
		s.UnitsSold += row.Quantity
		s.Revenue += row.TotalAmount
		s.GrossProfit += row.GrossProfit
		byProduct[row.StockName] += row.Quantity
	}
	s.TotalCost = s.Revenue - s.GrossProfit
	if s.Transactions > 0 {
		s.AvgSaleValue = s.Revenue / float64(s.Transactions)
	}
	if s.Revenue > 0 {
		s.ProfitMargin = s.GrossProfit / s.Revenue * 100
	}
	for name, units := range byProduct {
		if units > s.TopProductUnits {
			s.TopProductName = name
			s.TopProductUnits = units
		}
	}
	return s
}

var reportTmpl = template.Must(template.New("sales_report").Funcs(template.FuncMap{
	"inr": func(v float64) string { return "Rs. " + dashboard.FormatINR(v) },
	"day": func(t time.Time) string { return t.Format("02/01/06") },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #212529; margin: 40px; }
  .rule { border-top: 3px solid #0066cc; margin-bottom: 16px; }
  h1 { text-align: center; color: #1a1a2e; font-size: 24px; margin-bottom: 4px; }
  .subtitle { text-align: center; color: #6c757d; font-style: italic; font-size: 11px; }
  .period { text-align: center; color: #495057; font-size: 10px; margin-bottom: 24px; }
  h2 { color: #1a1a2e; font-size: 13px; border-bottom: 1px solid #dee2e6; padding-bottom: 4px; }
  table { width: 100%; border-collapse: collapse; font-size: 9px; }
  th { background: #343a40; color: #fff; padding: 8px; text-align: left; }
  td { padding: 7px 8px; border: 0.5px solid #dee2e6; }
  tr:nth-child(even) td { background: #f8f9fa; }
  td.num, th.num { text-align: right; }
  .kpi td:first-child { background: #f8f9fa; }
  .kpi td:last-child { font-weight: bold; text-align: right; }
  .footer { margin-top: 32px; text-align: center; color: #868e96; font-size: 8px; border-top: 0.5px solid #dee2e6; padding-top: 8px; }
  .empty { text-align: center; color: #6c757d; font-style: italic; margin: 24px 0; }
</style>
</head>
<body>
<div class="rule"></div>
<h1>SALES PERFORMANCE REPORT</h1>
<p class="subtitle">Honest accounts build honest businesses.</p>
<p class="period">Reporting Period: <b>{{.From.Format "02 January 2006"}}</b> to <b>{{.To.Format "02 January 2006"}}</b></p>

<h2>EXECUTIVE SUMMARY</h2>
<table class="kpi">
  <tr><td>Total Transactions</td><td>{{.Summary.Transactions}}</td></tr>
  <tr><td>Units Sold</td><td>{{.Summary.UnitsSold}}</td></tr>
  <tr><td>Total Revenue</td><td>{{inr .Summary.Revenue}}</td></tr>
  <tr><td>Gross Profit</td><td>{{inr .Summary.GrossProfit}}</td></tr>
  <tr><td>Total Cost</td><td>{{inr .Summary.TotalCost}}</td></tr>
  <tr><td>Average Sale Value</td><td>{{inr .Summary.AvgSaleValue}}</td></tr>
  <tr><td>Profit Margin</td><td>{{printf "%.2f%%" .Summary.ProfitMargin}}</td></tr>
  <tr><td>Top Selling Product</td><td>{{if .Summary.TopProductName}}{{.Summary.TopProductName}} ({{.Summary.TopProductUnits}} pcs){{else}}N/A{{end}}</td></tr>
</table>

<h2>TRANSACTION DETAILS</h2>
{{if .Rows}}
<table>
  <tr>
    <th>PRODUCT</th><th class="num">QTY</th><th class="num">UNIT PRICE</th>
    <th class="num">AMOUNT</th><th class="num">PROFIT</th><th>DATE</th>
  </tr>
  {{range .Rows}}
  <tr>
    <td>{{.StockName}}</td>
    <td class="num">{{.Quantity}}</td>
    <td class="num">{{inr .SellingPrice}}</td>
    <td class="num">{{inr .TotalAmount}}</td>
    <td class="num">{{inr .GrossProfit}}</td>
    <td>{{day .SoldOn}}</td>
  </tr>
  {{end}}
</table>
{{else}}
<p class="empty">No sales transactions recorded for the selected period.</p>
{{end}}

<div class="footer">
  <b>Document Generated:</b> {{.GeneratedAt.Format "02 January 2006 at 03:04 PM"}}<br>
  <i>CONFIDENTIAL - For Internal Use Only</i>
</div>
</body>
</html>`))

type templateData struct {
	From        time.Time
	To          time.Time
	Summary     Summary
	Rows        []sales.ReportRow
	GeneratedAt time.Time
}

// BuildHTML renders the report document for the given window and rows.
func BuildHTML(from, to time.Time, rows []sales.ReportRow) (string, error) {
	var buf bytes.Buffer
	err := reportTmpl.Execute(&buf, templateData{
		From:        from,
		To:          to,
		Summary:     Summarise(rows),
		Rows:        rows,
		GeneratedAt: time.Now(),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

package dashboard

// TopProduct is one of the month's best sellers.
type TopProduct struct {
	StockName    string  `json:"stock_name"`
	CategoryName string  `json:"category_name"`
	TotalSold    int64   `json:"total_sold"`
	Revenue      float64 `json:"revenue"`
}

// CategorySlice is the stock distribution of one category.
type CategorySlice struct {
	CategoryName  string  `json:"category_name"`
	TotalQuantity int64   `json:"total_quantity"`
	TotalValue    float64 `json:"total_value"`
}

// SeriesPoint is one bucket of a revenue chart.
type SeriesPoint struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// StockAlert is a stock item running dangerously low.
type StockAlert struct {
	StockID  int64  `json:"stock_id"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

// Snapshot is the full dashboard statistic set. Monetary display fields
// carry Indian digit grouping alongside the raw values.
type Snapshot struct {
	TodaySalesTotal   float64 `json:"today_sales_total"`
	TodaySalesCount   int64   `json:"today_sales_count"`
	UnverifiedSales   float64 `json:"unverified_sales_total"`
	TodayPurchases    float64 `json:"today_purchases_total"`
	TodayExpenses     float64 `json:"today_expenses_total"`
	StockValuation    float64 `json:"stock_valuation"`
	TotalItems        int64   `json:"total_items"`
	LowStockCount     int64   `json:"low_stock_count"`
	OutOfStockCount   int64   `json:"out_of_stock_count"`
	PendingPurchases  int64   `json:"pending_purchases"`
	PendingReturns    int64   `json:"pending_returns"`
	WeekSalesTotal    float64 `json:"week_sales_total"`
	WeekSalesProfit   float64 `json:"week_sales_profit"`
	MonthSalesTotal   float64 `json:"month_sales_total"`
	MonthSalesProfit  float64 `json:"month_sales_profit"`
	MonthSalesCount   int64   `json:"month_sales_count"`
	MonthPurchases    float64 `json:"month_purchases_total"`
	TotalRevenue      float64 `json:"total_revenue"`
	TotalProfit       float64 `json:"total_profit"`
	AvgProfitMargin   float64 `json:"avg_profit_margin"`
	ReturnedValue     float64 `json:"returned_value"`

	TopProducts          []TopProduct    `json:"top_products"`
	CategoryDistribution []CategorySlice `json:"category_distribution"`
	DailySales           []SeriesPoint   `json:"daily_sales"`
	MonthlySales         []SeriesPoint   `json:"monthly_sales"`
	StockAlerts          []StockAlert    `json:"stock_alerts"`

	Display DisplayTotals `json:"display"`
}

// DisplayTotals are the headline figures formatted for en-IN display.
type DisplayTotals struct {
	TodaySales     string `json:"today_sales"`
	TodayPurchases string `json:"today_purchases"`
	TodayExpenses  string `json:"today_expenses"`
	StockValuation string `json:"stock_valuation"`
	TotalRevenue   string `json:"total_revenue"`
	TotalProfit    string `json:"total_profit"`
}

// AlertThreshold marks items surfaced on the alert panel. Deliberately
// tighter than the low stock listing filter.
const AlertThreshold = 4

package sales

import "time"

// Sale is an outbound order line. It has no ledger effect until verified.
type Sale struct {
	ID           int64     `json:"id"`
	StockID      int64     `json:"stock_id"`
	StockName    string    `json:"stock_name,omitempty"`
	Quantity     int64     `json:"quantity_sold"`
	SellingPrice float64   `json:"selling_price"`
	TotalAmount  float64   `json:"total_amount"`
	GrossProfit  float64   `json:"gross_profit"`
	SoldOn       time.Time `json:"sold_on"`
	IsVerified   bool      `json:"is_verified"`
}

// CreateRequest is the payload for a new sale line.
type CreateRequest struct {
	StockID      int64   `json:"stock_id" validate:"required,gt=0"`
	Quantity     int64   `json:"quantity_sold" validate:"required,gt=0"`
	SellingPrice float64 `json:"selling_price" validate:"required,gt=0"`
}

// ListFilters narrows sale listings.
type ListFilters struct {
	Search     string
	CategoryID *int64
	Verified   *bool
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
}

// Aggregates summarises a filtered sale listing.
type Aggregates struct {
	Revenue       float64 `json:"revenue"`
	TotalQuantity int64   `json:"total_quantity"`
	GrossProfit   float64 `json:"gross_profit"`
	Margin        float64 `json:"margin_percent"`
}

// StockSnapshot is the stock view a sale is priced against at save time.
type StockSnapshot struct {
	ID        int64
	Name      string
	CostPrice float64
	Quantity  int64
}

// ReportRow is one line of the sales report, covering verified sales only.
type ReportRow struct {
	SoldOn       time.Time `json:"sold_on"`
	StockName    string    `json:"stock_name"`
	Quantity     int64     `json:"quantity_sold"`
	SellingPrice float64   `json:"selling_price"`
	TotalAmount  float64   `json:"total_amount"`
	GrossProfit  float64   `json:"gross_profit"`
}

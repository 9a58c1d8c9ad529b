package catalog

import "time"

// Category is a grouping label for stock items. Names are unique.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Stock represents one sellable item tracked by the ledger.
type Stock struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	CategoryID       int64     `json:"category_id"`
	CategoryName     string    `json:"category_name,omitempty"`
	Name             string    `json:"name"`
	CostPrice        float64   `json:"cost_price"`
	SellingPrice     float64   `json:"selling_price"`
	Quantity         int64     `json:"quantity"`
	Description      string    `json:"description,omitempty"`
	ShortDescription string    `json:"short_description,omitempty"`
	LastUpdated      time.Time `json:"last_updated"`
}

// ListFilters narrows stock listings.
type ListFilters struct {
	Search     string
	CategoryID *int64
	StockLevel string // "", "low", "out_of_stock"
	Page       int
	Limit      int
}

// LowStockThreshold mirrors the alert cut-off used on the dashboard.
const LowStockThreshold = 10

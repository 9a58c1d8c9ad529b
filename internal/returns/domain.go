package returns

import "time"

// Return is goods going back to a supplier. Processing deducts the quantity
// from stock and never goes below zero.
type Return struct {
	ID          int64     `json:"id"`
	StockID     int64     `json:"stock_id"`
	StockName   string    `json:"stock_name,omitempty"`
	Quantity    int64     `json:"quantity_returned"`
	IsProcessed bool      `json:"is_processed"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
}

// CreateRequest is the payload for a new return line.
type CreateRequest struct {
	StockID  int64 `json:"stock_id" validate:"required,gt=0"`
	Quantity int64 `json:"quantity_returned" validate:"required,gt=0"`
}

// ListFilters narrows return listings.
type ListFilters struct {
	Search    string
	Processed *bool
	Page      int
	Limit     int
}

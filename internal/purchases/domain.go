package purchases

import "time"

// Purchase is an inbound order line for a stock item. It has no ledger
// effect until an elevated operator receives it.
type Purchase struct {
	ID               int64     `json:"id"`
	StockID          int64     `json:"stock_id"`
	StockName        string    `json:"stock_name,omitempty"`
	PurchaseDate     time.Time `json:"purchase_date"`
	Quantity         int64     `json:"quantity_purchased"`
	CostPricePerUnit float64   `json:"cost_price_per_unit"`
	SellingPrice     float64   `json:"selling_price"`
	TotalCost        float64   `json:"total_cost"`
	Remarks          string    `json:"remarks,omitempty"`
	IsReceived       bool      `json:"is_received"`
	CreatedAt        time.Time `json:"created_at"`
	LastUpdated      time.Time `json:"last_updated"`
}

// CreateRequest is the payload for a new purchase line.
type CreateRequest struct {
	StockID          int64   `json:"stock_id" validate:"required,gt=0"`
	PurchaseDate     string  `json:"purchase_date" validate:"omitempty,datetime=2006-01-02"`
	Quantity         int64   `json:"quantity_purchased" validate:"required,gt=0"`
	CostPricePerUnit float64 `json:"cost_price_per_unit" validate:"required,gt=0"`
	Remarks          string  `json:"remarks" validate:"omitempty,max=500"`
}

// UpdateRequest edits a pending purchase line. Received lines are immutable.
type UpdateRequest struct {
	PurchaseDate     string  `json:"purchase_date" validate:"omitempty,datetime=2006-01-02"`
	Quantity         int64   `json:"quantity_purchased" validate:"required,gt=0"`
	CostPricePerUnit float64 `json:"cost_price_per_unit" validate:"required,gt=0"`
	Remarks          string  `json:"remarks" validate:"omitempty,max=500"`
}

// ListFilters narrows purchase listings.
type ListFilters struct {
	Search     string
	CategoryID *int64
	Received   *bool
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
}

// Aggregates summarises a filtered purchase listing.
type Aggregates struct {
	TotalCost     float64 `json:"total_cost"`
	TotalQuantity int64   `json:"total_quantity"`
	TodayCost     float64 `json:"today_cost"`
	WeekCost      float64 `json:"week_cost"`
	MonthCost     float64 `json:"month_cost"`
}

// TargetMargin drives the minimum selling price derived at save time:
// cost / 0.8 yields a 20 percent margin on the selling price.
const TargetMargin = 0.8

package ledger

import (
	"errors"
	"fmt"
)

// StockLevel is the ledger row for one stock item: on-hand quantity plus the
// weighted-average cost basis and the minimum selling price.
type StockLevel struct {
	StockID      int64
	Name         string
	Quantity     int64
	CostPrice    float64
	SellingPrice float64
}

// PurchaseLine is a pending purchase selected for receiving.
type PurchaseLine struct {
	ID           int64
	StockID      int64
	Qty          int64
	UnitCost     float64
	SellingPrice float64
}

// SaleLine is a pending sale selected for verification.
type SaleLine struct {
	ID      int64
	StockID int64
	Qty     int64
}

// ReturnLine is a pending purchase return selected for processing.
type ReturnLine struct {
	ID      int64
	StockID int64
	Qty     int64
}

// StockSummary reports the committed ledger state of one stock item after an action.
type StockSummary struct {
	StockID   int64   `json:"stock_id"`
	Name      string  `json:"name"`
	Quantity  int64   `json:"quantity"`
	CostPrice float64 `json:"cost_price"`
}

// SkippedGroup records a sale group left untouched because the stock on hand
// could not cover the group total.
type SkippedGroup struct {
	StockID   int64  `json:"stock_id"`
	Name      string `json:"name"`
	Available int64  `json:"available"`
	Required  int64  `json:"required"`
	Lines     int    `json:"lines"`
}

// ReceiveResult summarises a receiving action.
type ReceiveResult struct {
	Received int            `json:"received"`
	Stocks   []StockSummary `json:"stocks"`
}

// VerifyResult summarises a sale verification action.
type VerifyResult struct {
	Verified int            `json:"verified"`
	Skipped  []SkippedGroup `json:"skipped,omitempty"`
}

// Message renders the operator-facing outcome, distinguishing zero verified
// from a partial success.
func (r VerifyResult) Message() string {
	if r.Verified == 0 {
		return "no sales were verified"
	}
	return fmt.Sprintf("successfully verified %d sales", r.Verified)
}

// ProcessResult summarises a return processing action.
type ProcessResult struct {
	Processed int `json:"processed"`
}

// ErrInsufficientStock triggered when a mutation would drive quantity negative.
var ErrInsufficientStock = errors.New("ledger: insufficient stock")

// ErrNotPermitted indicates the operator lacks the elevated flag the action requires.
var ErrNotPermitted = errors.New("ledger: operator not permitted")

// ErrNothingSelected indicates an empty line selection.
var ErrNothingSelected = errors.New("ledger: no lines selected")

// ErrStockNotFound indicates a dangling stock reference.
var ErrStockNotFound = errors.New("ledger: stock not found")

package expenses

import "time"

// Expense is a classified operating cost. It feeds reporting only and
// never touches the stock ledger.
type Expense struct {
	ID          int64     `json:"id"`
	Type        string    `json:"expense_type"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	IncurredOn  time.Time `json:"incurred_on"`
	CreatedAt   time.Time `json:"created_at"`
}

// Types is the closed set of expense classifications.
var Types = []string{"rent", "electricity", "salary", "transport", "packaging", "maintenance", "misc"}

// CreateRequest is the payload for a new expense.
type CreateRequest struct {
	Type        string  `json:"expense_type" validate:"required"`
	Description string  `json:"description" validate:"max=500"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	IncurredOn  string  `json:"incurred_on" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateRequest edits an existing expense.
type UpdateRequest struct {
	Type        string  `json:"expense_type" validate:"required"`
	Description string  `json:"description" validate:"max=500"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	IncurredOn  string  `json:"incurred_on" validate:"omitempty,datetime=2006-01-02"`
}

// ListFilters narrows expense listings.
type ListFilters struct {
	Search string
	Type   string
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}

// TypeTotal is the per-classification rollup of a filtered listing.
type TypeTotal struct {
	Type        string  `json:"expense_type"`
	TotalAmount float64 `json:"total_amount"`
	Count       int64   `json:"count"`
}

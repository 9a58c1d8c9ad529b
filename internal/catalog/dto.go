package catalog

// CreateStockRequest is the payload for registering a new stock item.
type CreateStockRequest struct {
	CategoryID       int64   `json:"category_id" validate:"required,gt=0"`
	Name             string  `json:"name" validate:"required,min=2,max=120"`
	CostPrice        float64 `json:"cost_price" validate:"gte=0"`
	SellingPrice     float64 `json:"selling_price" validate:"gte=0"`
	Quantity         int64   `json:"quantity" validate:"gte=0"`
	Description      string  `json:"description" validate:"max=2000"`
	ShortDescription string  `json:"short_description" validate:"max=200"`
}

// UpdateStockRequest carries editable stock fields. Quantity is absent on
// purpose: on-hand counts only move through receiving, verification and
// return processing.
type UpdateStockRequest struct {
	CategoryID       int64   `json:"category_id" validate:"required,gt=0"`
	Name             string  `json:"name" validate:"required,min=2,max=120"`
	CostPrice        float64 `json:"cost_price" validate:"gte=0"`
	SellingPrice     float64 `json:"selling_price" validate:"gte=0"`
	Description      string  `json:"description" validate:"max=2000"`
	ShortDescription string  `json:"short_description" validate:"max=200"`
}

// CreateCategoryRequest is the payload for a new category.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=80"`
}

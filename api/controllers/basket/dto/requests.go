package dto

import "github.com/lukefryer1234/Oak-Structures-website-sub001/internal/pricing"

// AddItemRequest adds a configured product to the caller's basket. A zero
// quantity means one.
type AddItemRequest struct {
	ProductID  string              `json:"product_id" validate:"required"`
	Selections []pricing.Selection `json:"selections" validate:"dive"`
	Quantity   int                 `json:"quantity" validate:"gte=0,lte=999"`
}

// UpdateQuantityRequest replaces a line's quantity; zero removes the line.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0,lte=999"`
}

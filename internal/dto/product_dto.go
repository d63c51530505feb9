package dto

import "github.com/shopspring/decimal"

type CreateProductRequest struct {
	Name       string          `json:"name"        validate:"required,min=1"`
	Price      decimal.Decimal `json:"price"       validate:"required,gt=0"`
	CategoryID string          `json:"category_id" validate:"required,uuid"`
	Stock      int             `json:"stock"       validate:"min=0"`
	Photo      *string         `json:"photo"`
}

type UpdateProductRequest struct {
	Name       *string          `json:"name"        validate:"omitempty,min=1"`
	Price      *decimal.Decimal `json:"price"       validate:"omitempty,gt=0"`
	CategoryID *string          `json:"category_id" validate:"omitempty,uuid"`
	Photo      *string          `json:"photo"`
}

// AdjustStockRequest is an explicit inventory correction. Delta is signed:
// positive restocks, negative removes (floored at zero server-side).
type AdjustStockRequest struct {
	Delta int    `json:"delta" validate:"required"`
	Note  string `json:"note"  validate:"required,min=3"`
}

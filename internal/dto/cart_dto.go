package dto

import (
	"tokopos/internal/model"

	"github.com/shopspring/decimal"
)

type AddLineRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

type SetQuantityRequest struct {
	Qty int `json:"qty"`
}

// CartResponse is the cart state returned after every cart operation so the
// terminal can re-render without a second round trip.
type CartResponse struct {
	Lines     []model.CartLine `json:"lines"`
	Subtotal  decimal.Decimal  `json:"subtotal"`
	LineCount int              `json:"line_count"`
}

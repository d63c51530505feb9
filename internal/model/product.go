package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable catalog item. Stock is the single authoritative
// inventory counter: it is only mutated by a committed sale or an explicit
// stock adjustment, and never goes below zero.
type Product struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	CategoryID uuid.UUID       `json:"category_id"`
	Stock      int             `json:"stock"`
	Photo      *string         `json:"photo,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

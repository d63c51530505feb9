package model

import (
	"time"

	"github.com/google/uuid"
)

// StockLog movement types.
const (
	StockIn  = "in"
	StockOut = "out"
)

// StockLog is an append-only audit entry recording one inventory movement.
// A local-mode sale appends exactly one "out" entry per cart line; in remote
// mode the backend is authoritative and the core does not duplicate them.
type StockLog struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Type      string    `json:"type"` // "in" | "out"
	Amount    int       `json:"amount"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

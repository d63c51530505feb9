package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an immutable, append-only record of a committed sale.
//
// ID is the human-readable display code (e.g. TRX20250829143055).
// ReferenceID is the durable numeric identifier issued by the remote
// backend; it is the ONLY valid key for server-side lookups such as
// attaching a receipt. Local-only commits have no reference id.
type Transaction struct {
	ID          string          `json:"id"`
	ReferenceID *int64          `json:"reference_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	Items       []CartLine      `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Total       decimal.Decimal `json:"total"`
	Paid        decimal.Decimal `json:"paid"`
	Change      decimal.Decimal `json:"change"`
}

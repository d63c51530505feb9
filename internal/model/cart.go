package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is a transient, session-only line item. Name and price are
// snapshotted from the product at add time so a later price change does not
// retroactively alter an open cart. Cart lines are never persisted on their
// own; they only survive as the item list of a committed transaction.
type CartLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Qty       int             `json:"qty"`
}

// LineTotal returns price * qty for this line.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Qty)))
}

// CartSubtotal recomputes the subtotal over a set of lines. Always derived,
// never cached across mutation.
func CartSubtotal(lines []CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}

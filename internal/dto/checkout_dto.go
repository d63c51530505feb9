package dto

import (
	"tokopos/internal/model"

	"github.com/shopspring/decimal"
)

type CheckoutRequest struct {
	Paid decimal.Decimal `json:"paid" validate:"required"`
	// CustomerEmail: optional — when present, the receipt worker mails the
	// rendered PDF after the sale.
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
}

// CheckoutResponse returns the committed transaction. ReceiptStatus is
// always "pending" at commit time: the receipt pipeline is asynchronous and
// reports its outcome through the notifications channel.
type CheckoutResponse struct {
	Transaction   model.Transaction `json:"transaction"`
	ReceiptStatus string            `json:"receipt_status"`
}

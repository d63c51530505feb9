package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Validation errors of the commit gate. They are always raised before any
// mutation, reported synchronously, and never retried automatically.
var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInsufficientPayment = errors.New("paid amount is less than the total")
	ErrLineNotFound        = errors.New("cart line not found")
)

// StockExceededError reports that a requested quantity exceeds the current
// stock of a product. The first violating product short-circuits validation.
type StockExceededError struct {
	ProductID uuid.UUID
	Requested int
	Available int
}

func (e *StockExceededError) Error() string {
	return fmt.Sprintf("requested qty %d exceeds stock %d for product %s", e.Requested, e.Available, e.ProductID)
}

// ProductNotFoundError reports a cart line referencing a product that is no
// longer in the catalog.
type ProductNotFoundError struct {
	ProductID uuid.UUID
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

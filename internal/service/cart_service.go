package service

import (
	"context"
	"sync"

	"tokopos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartService is the in-memory, single-session line-item aggregator. It
// never touches persistence; the stock ceiling it enforces against the
// catalog snapshot is UX feedback only — the commit engine re-validates
// against the freshest snapshot before any mutation.
//
// The mutex only serializes handler access within one terminal; the cart is
// never shared across sessions.
type CartService struct {
	mu      sync.Mutex
	lines   []model.CartLine
	catalog CatalogService
}

func NewCartService(catalog CatalogService) *CartService {
	return &CartService{catalog: catalog}
}

// AddLine adds one unit of the product to the cart. It is a silent no-op
// (observable only through the unchanged returned state) when the product
// has no stock, or when one more unit would exceed the current stock of an
// existing line.
func (s *CartService) AddLine(ctx context.Context, productID uuid.UUID) ([]model.CartLine, error) {
	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Stock <= 0 {
		return s.snapshot(), nil
	}

	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			if s.lines[i].Qty+1 > p.Stock {
				return s.snapshot(), nil
			}
			s.lines[i].Qty++
			return s.snapshot(), nil
		}
	}

	// Snapshot name/price at add time: a later catalog price change must
	// not retroactively alter an open cart.
	s.lines = append(s.lines, model.CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Qty:       1,
	})
	return s.snapshot(), nil
}

// SetQuantity sets a line's quantity. Zero or negative removes the line.
// A quantity above the product's current stock is rejected (line unchanged)
// rather than clamped, so the caller knows the request was invalid.
func (s *CartService) SetQuantity(ctx context.Context, productID uuid.UUID, qty int) ([]model.CartLine, error) {
	if qty <= 0 {
		return s.RemoveLine(productID), nil
	}

	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			if qty > p.Stock {
				return nil, &StockExceededError{ProductID: productID, Requested: qty, Available: p.Stock}
			}
			s.lines[i].Qty = qty
			return s.snapshot(), nil
		}
	}
	return nil, ErrLineNotFound
}

// RemoveLine drops the line for productID, if present.
func (s *CartService) RemoveLine(productID uuid.UUID) []model.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			break
		}
	}
	return s.snapshot()
}

// Clear empties the cart.
func (s *CartService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

// Lines returns a copy of the current cart lines.
func (s *CartService) Lines() []model.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Subtotal recomputes the cart subtotal. Never cached across mutation.
func (s *CartService) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.CartSubtotal(s.lines)
}

// LineCount returns the number of distinct lines.
func (s *CartService) LineCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// snapshot must be called with the mutex held.
func (s *CartService) snapshot() []model.CartLine {
	out := make([]model.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

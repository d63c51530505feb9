package service

import (
	"context"

	"tokopos/internal/model"
	"tokopos/internal/repository"
	"tokopos/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// CheckoutService is the commit engine. Commit is the only path that turns
// an open cart into a durable transaction, and it runs a strict order:
// validate everything first, then persist through the routed backend, then
// clear the cart, then hand the committed transaction to the async receipt
// pipeline. Nothing after persistence can fail the sale.
type CheckoutService struct {
	cart       *CartService
	backend    repository.BackendFunc
	dispatcher *worker.Dispatcher
	notifier   *Notifier
	dashboard  *DashboardService
}

func NewCheckoutService(
	cart *CartService,
	backend repository.BackendFunc,
	dispatcher *worker.Dispatcher,
	notifier *Notifier,
	dashboard *DashboardService,
) *CheckoutService {
	return &CheckoutService{
		cart:       cart,
		backend:    backend,
		dispatcher: dispatcher,
		notifier:   notifier,
		dashboard:  dashboard,
	}
}

// Commit validates and persists the current cart as a sale.
//
// The validation gate runs in a fixed order and the first failure aborts
// with no mutation anywhere:
//  1. the cart must not be empty
//  2. paid must cover the subtotal, recomputed from the lines now
//  3. every line is re-checked against a fresh product read — the cart's
//     own stock ceiling was advisory, this check is the binding one
//
// On success the cart is cleared, a receipt job is enqueued (enqueue
// failure is reported through the notifier but does not undo the sale),
// and a dashboard refresh is kicked off in the background.
//
// receiptQueued reports whether the receipt job was accepted; the sale
// itself is committed either way.
func (s *CheckoutService) Commit(ctx context.Context, paid decimal.Decimal, customerEmail string) (tx *model.Transaction, receiptQueued bool, err error) {
	lines := s.cart.Lines()
	if len(lines) == 0 {
		return nil, false, ErrEmptyCart
	}

	subtotal := model.CartSubtotal(lines)
	if paid.LessThan(subtotal) {
		return nil, false, ErrInsufficientPayment
	}

	if err := s.validateStock(ctx, lines); err != nil {
		return nil, false, err
	}

	tx, err = s.backend().CommitTransaction(ctx, lines, paid)
	if err != nil {
		return nil, false, err
	}

	// Point of no return: the sale is durable. The cart belongs to the next
	// customer now.
	s.cart.Clear()

	receiptQueued = true
	job := worker.ReceiptJobPayload{Transaction: *tx, CustomerEmail: customerEmail}
	if enqErr := s.dispatcher.EnqueueReceipt(ctx, job); enqErr != nil {
		receiptQueued = false
		s.notifier.ReceiptFailed(tx.ID, enqErr)
	}

	go func() {
		if refreshErr := s.dashboard.Refresh(context.Background()); refreshErr != nil {
			log.Warn().Err(refreshErr).Msg("dashboard refresh after commit failed")
		}
	}()

	return tx, receiptQueued, nil
}

// validateStock re-reads the product collection and checks every cart line
// against it. The first violation aborts; no partial result leaks out.
func (s *CheckoutService) validateStock(ctx context.Context, lines []model.CartLine) error {
	var products []model.Product
	if err := s.backend().ReadCollection(ctx, repository.CollectionProducts, &products); err != nil {
		return err
	}

	byID := make(map[string]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID.String()] = &products[i]
	}

	for _, line := range lines {
		p, ok := byID[line.ProductID.String()]
		if !ok {
			return &ProductNotFoundError{ProductID: line.ProductID}
		}
		if line.Qty > p.Stock {
			return &StockExceededError{ProductID: line.ProductID, Requested: line.Qty, Available: p.Stock}
		}
	}
	return nil
}

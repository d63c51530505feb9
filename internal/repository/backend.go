// Package repository routes persistence between the remote backend and the
// local durable store. Services depend only on the Backend port; which
// implementation handles a given call is decided per operation by a Selector.
package repository

import (
	"context"

	"tokopos/internal/model"

	"github.com/shopspring/decimal"
)

// Collection keys for the durable store. Each key maps to one
// whole-collection JSON blob.
const (
	CollectionCategories   = "categories"
	CollectionProducts     = "products"
	CollectionTransactions = "transactions"
	CollectionStockLogs    = "stock_logs"
)

// Selector reports whether remote mode is active. It is evaluated on every
// operation, never cached at startup, so the mode can be environment-driven
// without a restart. No business rule may depend on WHY the flag is set —
// it is purely a routing decision.
type Selector func() bool

// BackendFunc yields the active backend for one operation.
type BackendFunc func() Backend

// Route binds a selector to the two backends. The selector runs on every
// call, so flipping remote mode mid-session reroutes the very next
// operation.
func Route(sel Selector, remote, local Backend) BackendFunc {
	return func() Backend {
		if sel() {
			return remote
		}
		return local
	}
}

// Backend is the persistence port shared by the commit engine, catalog, and
// dashboard. Two implementations exist: RemoteBackend (backend service is
// authoritative) and LocalBackend (bbolt file is authoritative).
type Backend interface {
	// CommitTransaction persists an already-validated sale and returns the
	// committed transaction. The caller performs the validation gate; the
	// backend owns id assignment, stock decrement, and stock log creation.
	CommitTransaction(ctx context.Context, items []model.CartLine, paid decimal.Decimal) (*model.Transaction, error)

	// ReadCollection loads a whole collection into out (a pointer to a slice).
	ReadCollection(ctx context.Context, key string, out any) error

	// WriteCollection replaces a whole collection.
	WriteCollection(ctx context.Context, key string, v any) error
}

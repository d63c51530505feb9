package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tokopos/internal/infra"
	"tokopos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LocalBackend persists everything in the embedded bbolt store. It is the
// source of truth in local-only mode and the fallback snapshot for degraded
// reads in remote mode.
//
// Collections are read-modify-written as whole JSON blobs. Within a single
// terminal all commit logic runs to completion before another commit can
// start, so replace-the-collection semantics cannot lose updates; a genuine
// cross-terminal race is out of scope here and only bounded by the
// floor-at-zero rule.
type LocalBackend struct {
	db *infra.LocalDB
}

func NewLocalBackend(db *infra.LocalDB) *LocalBackend {
	return &LocalBackend{db: db}
}

// newTransactionCode synthesizes a display code from the timestamp. The
// digits-only suffix keeps codes monotonically increasing and scannable by
// a human flipping through the day's sales.
func newTransactionCode(now time.Time) string {
	return "TRX" + now.Format("20060102150405")
}

// CommitTransaction persists a validated sale locally:
//   - synthesize the display code from the current timestamp
//   - decrement each product's stock, floored at zero
//   - append exactly one "out" StockLog per cart line
//   - prepend the transaction to history (newest first)
//
// No compensating transaction exists: once written, a wrong sale is
// corrected by an equally-logged inverse stock adjustment, never by
// mutating history.
func (b *LocalBackend) CommitTransaction(ctx context.Context, items []model.CartLine, paid decimal.Decimal) (*model.Transaction, error) {
	now := time.Now()
	subtotal := model.CartSubtotal(items)

	lines := make([]model.CartLine, len(items))
	copy(lines, items)

	tx := model.Transaction{
		ID:        newTransactionCode(now),
		CreatedAt: now,
		Items:     lines,
		Subtotal:  subtotal,
		Total:     subtotal,
		Paid:      paid,
		Change:    paid.Sub(subtotal),
	}

	var products []model.Product
	if err := b.ReadCollection(ctx, CollectionProducts, &products); err != nil {
		return nil, err
	}
	var logs []model.StockLog
	if err := b.ReadCollection(ctx, CollectionStockLogs, &logs); err != nil {
		return nil, err
	}

	for _, line := range lines {
		idx := -1
		for i := range products {
			if products[i].ID == line.ProductID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("product %s not found in local catalog", line.ProductID)
		}

		newStock := products[idx].Stock - line.Qty
		if newStock < 0 {
			newStock = 0
		}
		products[idx].Stock = newStock

		logs = append(logs, model.StockLog{
			ID:        uuid.New(),
			ProductID: line.ProductID,
			Type:      model.StockOut,
			Amount:    line.Qty,
			Note:      fmt.Sprintf("Sale %s", tx.ID),
			CreatedAt: now,
		})
	}

	var history []model.Transaction
	if err := b.ReadCollection(ctx, CollectionTransactions, &history); err != nil {
		return nil, err
	}
	history = append([]model.Transaction{tx}, history...)

	if err := b.WriteCollection(ctx, CollectionProducts, products); err != nil {
		return nil, err
	}
	if err := b.WriteCollection(ctx, CollectionStockLogs, logs); err != nil {
		return nil, err
	}
	if err := b.WriteCollection(ctx, CollectionTransactions, history); err != nil {
		return nil, err
	}

	return &tx, nil
}

// ReadCollection loads a collection blob. An absent key yields the zero
// value of out (empty catalog, empty history).
func (b *LocalBackend) ReadCollection(_ context.Context, key string, out any) error {
	raw, ok, err := b.db.Get(key)
	if err != nil {
		return fmt.Errorf("read collection %s: %w", key, err)
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decode collection %s: %w", key, err)
	}
	return nil
}

// WriteCollection replaces a collection blob.
func (b *LocalBackend) WriteCollection(_ context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", key, err)
	}
	if err := b.db.Put(key, string(raw)); err != nil {
		return fmt.Errorf("write collection %s: %w", key, err)
	}
	return nil
}

var _ Backend = (*LocalBackend)(nil)

package repository

import (
	"context"
	"fmt"

	"tokopos/internal/infra"
	"tokopos/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// RemoteBackend delegates persistence to the backend service. Reads go
// through a circuit breaker and degrade to the local snapshot when the
// backend is unreachable; writes never fall back, since silently creating a
// second source of truth for stock is worse than a failed request.
type RemoteBackend struct {
	client *infra.BackendClient
	cb     *infra.CircuitBreaker
	local  *LocalBackend
}

func NewRemoteBackend(client *infra.BackendClient, cb *infra.CircuitBreaker, local *LocalBackend) *RemoteBackend {
	return &RemoteBackend{client: client, cb: cb, local: local}
}

// CommitTransaction posts the sale to the backend, which is the sole
// authority for id assignment, stock decrement, and stock log creation in
// remote mode. Any transport error is surfaced to the caller as a commit
// failure — there is deliberately no local fallback here.
func (b *RemoteBackend) CommitTransaction(ctx context.Context, items []model.CartLine, paid decimal.Decimal) (*model.Transaction, error) {
	payload := infra.CommitPayload{
		Items: make([]infra.CommitItem, 0, len(items)),
		Paid:  paid,
	}
	for _, line := range items {
		payload.Items = append(payload.Items, infra.CommitItem{
			ProductID: line.ProductID.String(),
			Qty:       line.Qty,
		})
	}

	var remote *infra.RemoteTransaction
	err := b.cb.Execute(func() error {
		var callErr error
		remote, callErr = b.client.CreateTransaction(ctx, payload)
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("remote commit: %w", err)
	}

	refID := remote.ID
	tx := &model.Transaction{
		ID:          remote.Code,
		ReferenceID: &refID,
		CreatedAt:   remote.CreatedAt,
		Items:       remote.Items,
		Subtotal:    remote.Subtotal,
		Total:       remote.Total,
		Paid:        remote.Paid,
		Change:      remote.Change,
	}

	b.cacheCommitted(ctx, tx)
	return tx, nil
}

// cacheCommitted prepends the committed transaction to the local snapshot so
// degraded reads and receipt lookups keep working if the backend goes away
// right after the sale. The snapshot is a cache of remote truth, not a
// second authority: stock and logs stay backend-owned.
func (b *RemoteBackend) cacheCommitted(ctx context.Context, tx *model.Transaction) {
	var history []model.Transaction
	if err := b.local.ReadCollection(ctx, CollectionTransactions, &history); err != nil {
		log.Warn().Err(err).Msg("remote backend: snapshot read failed, skipping cache")
		return
	}
	history = append([]model.Transaction{*tx}, history...)
	if err := b.local.WriteCollection(ctx, CollectionTransactions, history); err != nil {
		log.Warn().Err(err).Msg("remote backend: snapshot write failed")
	}
}

// ReadCollection fetches the collection from the backend through the circuit
// breaker. On success the local snapshot is refreshed; on failure the last
// known snapshot is returned instead, since a stale read beats a blank
// screen for idempotent reads.
func (b *RemoteBackend) ReadCollection(ctx context.Context, key string, out any) error {
	err := b.cb.Execute(func() error {
		return b.fetchInto(ctx, key, out)
	})
	if err == nil {
		if werr := b.local.WriteCollection(ctx, key, out); werr != nil {
			log.Warn().Err(werr).Str("collection", key).Msg("remote backend: snapshot refresh failed")
		}
		return nil
	}

	log.Warn().Err(err).Str("collection", key).Msg("remote read failed, serving local snapshot")
	return b.local.ReadCollection(ctx, key, out)
}

func (b *RemoteBackend) fetchInto(ctx context.Context, key string, out any) error {
	switch v := out.(type) {
	case *[]model.Product:
		products, err := b.client.FetchProducts(ctx)
		if err != nil {
			return err
		}
		*v = products
	case *[]model.Category:
		categories, err := b.client.FetchCategories(ctx)
		if err != nil {
			return err
		}
		*v = categories
	case *[]model.Transaction:
		transactions, err := b.client.FetchTransactions(ctx)
		if err != nil {
			return err
		}
		*v = transactions
	default:
		return fmt.Errorf("remote backend: no endpoint for collection %s", key)
	}
	return nil
}

// WriteCollection only refreshes the local snapshot. Catalog management is
// backend-owned in remote mode; the core never pushes whole collections up.
func (b *RemoteBackend) WriteCollection(ctx context.Context, key string, v any) error {
	return b.local.WriteCollection(ctx, key, v)
}

var _ Backend = (*RemoteBackend)(nil)

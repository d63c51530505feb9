package repository

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tokopos/internal/infra"
	"tokopos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T) *LocalBackend {
	t.Helper()
	db, err := infra.OpenLocalDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewLocalBackend(db)
}

func seedProducts(t *testing.T, b *LocalBackend, products []model.Product) {
	t.Helper()
	require.NoError(t, b.WriteCollection(context.Background(), CollectionProducts, products))
}

func TestReadCollectionAbsentKeyYieldsZeroValue(t *testing.T) {
	b := newTestBackend(t)

	var products []model.Product
	require.NoError(t, b.ReadCollection(context.Background(), CollectionProducts, &products))
	assert.Empty(t, products)
}

func TestWriteReadCollectionRoundTripPreservesOrder(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	in := []model.Category{
		{ID: uuid.New(), Name: "Drinks", CreatedAt: time.Now().Truncate(time.Second)},
		{ID: uuid.New(), Name: "Snacks", CreatedAt: time.Now().Truncate(time.Second)},
		{ID: uuid.New(), Name: "Household", CreatedAt: time.Now().Truncate(time.Second)},
	}
	require.NoError(t, b.WriteCollection(ctx, CollectionCategories, in))

	var out []model.Category
	require.NoError(t, b.ReadCollection(ctx, CollectionCategories, &out))
	require.Len(t, out, 3)
	for i := range in {
		assert.Equal(t, in[i].ID, out[i].ID)
		assert.Equal(t, in[i].Name, out[i].Name)
	}
}

func TestCommitTransactionDecrementsStockAndLogs(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	p1 := model.Product{ID: uuid.New(), Name: "Water", Price: decimal.NewFromInt(4000), Stock: 10}
	p2 := model.Product{ID: uuid.New(), Name: "Chips", Price: decimal.NewFromInt(11000), Stock: 5}
	seedProducts(t, b, []model.Product{p1, p2})

	items := []model.CartLine{
		{ProductID: p1.ID, Name: p1.Name, Price: p1.Price, Qty: 3},
		{ProductID: p2.ID, Name: p2.Name, Price: p2.Price, Qty: 2},
	}
	paid := decimal.NewFromInt(50000)

	tx, err := b.CommitTransaction(ctx, items, paid)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(tx.ID, "TRX"))
	assert.Len(t, tx.ID, 3+14) // TRX + yyyymmddhhmmss
	assert.Nil(t, tx.ReferenceID)

	wantSubtotal := decimal.NewFromInt(3*4000 + 2*11000)
	assert.True(t, tx.Subtotal.Equal(wantSubtotal))
	assert.True(t, tx.Total.Equal(wantSubtotal))
	assert.True(t, tx.Change.Equal(paid.Sub(wantSubtotal)))

	var products []model.Product
	require.NoError(t, b.ReadCollection(ctx, CollectionProducts, &products))
	assert.Equal(t, 7, products[0].Stock)
	assert.Equal(t, 3, products[1].Stock)

	var logs []model.StockLog
	require.NoError(t, b.ReadCollection(ctx, CollectionStockLogs, &logs))
	require.Len(t, logs, 2) // exactly one per line
	for _, l := range logs {
		assert.Equal(t, model.StockOut, l.Type)
		assert.Contains(t, l.Note, tx.ID)
	}
	assert.Equal(t, 3, logs[0].Amount)
	assert.Equal(t, 2, logs[1].Amount)
}

func TestCommitTransactionFloorsStockAtZero(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	p := model.Product{ID: uuid.New(), Name: "Water", Price: decimal.NewFromInt(4000), Stock: 2}
	seedProducts(t, b, []model.Product{p})

	// Oversell relative to the stored snapshot; the counter floors at zero
	// instead of going negative.
	items := []model.CartLine{{ProductID: p.ID, Name: p.Name, Price: p.Price, Qty: 5}}
	_, err := b.CommitTransaction(ctx, items, decimal.NewFromInt(100000))
	require.NoError(t, err)

	var products []model.Product
	require.NoError(t, b.ReadCollection(ctx, CollectionProducts, &products))
	assert.Equal(t, 0, products[0].Stock)
}

func TestCommitTransactionUnknownProductFails(t *testing.T) {
	b := newTestBackend(t)

	items := []model.CartLine{{ProductID: uuid.New(), Name: "Ghost", Price: decimal.NewFromInt(100), Qty: 1}}
	_, err := b.CommitTransaction(context.Background(), items, decimal.NewFromInt(100))
	assert.Error(t, err)
}

func TestCommitTransactionPrependsHistory(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	p := model.Product{ID: uuid.New(), Name: "Water", Price: decimal.NewFromInt(4000), Stock: 100}
	seedProducts(t, b, []model.Product{p})

	items := []model.CartLine{{ProductID: p.ID, Name: p.Name, Price: p.Price, Qty: 1}}

	first, err := b.CommitTransaction(ctx, items, decimal.NewFromInt(4000))
	require.NoError(t, err)
	second, err := b.CommitTransaction(ctx, items, decimal.NewFromInt(4000))
	require.NoError(t, err)

	var history []model.Transaction
	require.NoError(t, b.ReadCollection(ctx, CollectionTransactions, &history))
	require.Len(t, history, 2)
	// Newest first
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, first.ID, history[1].ID)
}

func TestRouteEvaluatesSelectorPerCall(t *testing.T) {
	local := newTestBackend(t)
	other := newTestBackend(t)

	remoteOn := false
	backend := Route(func() bool { return remoteOn }, other, local)

	assert.Same(t, Backend(local), backend())
	remoteOn = true
	assert.Same(t, Backend(other), backend())
	remoteOn = false
	assert.Same(t, Backend(local), backend())
}

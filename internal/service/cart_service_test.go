package service

import (
	"context"
	"errors"
	"testing"

	"tokopos/internal/dto"
	"tokopos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubCatalog serves a fixed product set for cart tests.
type stubCatalog struct {
	products map[uuid.UUID]model.Product
}

func newStubCatalog(products ...model.Product) *stubCatalog {
	m := make(map[uuid.UUID]model.Product)
	for _, p := range products {
		m[p.ID] = p
	}
	return &stubCatalog{products: m}
}

func (s *stubCatalog) setStock(id uuid.UUID, stock int) {
	p := s.products[id]
	p.Stock = stock
	s.products[id] = p
}

func (s *stubCatalog) ListProducts(_ context.Context) ([]model.Product, error) {
	out := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}

func (s *stubCatalog) GetProduct(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, &ProductNotFoundError{ProductID: id}
	}
	return &p, nil
}

func (s *stubCatalog) CreateProduct(_ context.Context, _ dto.CreateProductRequest) (*model.Product, error) {
	return nil, errors.New("not implemented")
}
func (s *stubCatalog) UpdateProduct(_ context.Context, _ uuid.UUID, _ dto.UpdateProductRequest) (*model.Product, error) {
	return nil, errors.New("not implemented")
}
func (s *stubCatalog) DeleteProduct(_ context.Context, _ uuid.UUID) error {
	return errors.New("not implemented")
}
func (s *stubCatalog) AdjustStock(_ context.Context, _ uuid.UUID, _ int, _ string) (*model.Product, error) {
	return nil, errors.New("not implemented")
}
func (s *stubCatalog) ListCategories(_ context.Context) ([]model.Category, error) { return nil, nil }
func (s *stubCatalog) CreateCategory(_ context.Context, _ dto.CreateCategoryRequest) (*model.Category, error) {
	return nil, errors.New("not implemented")
}
func (s *stubCatalog) RenameCategory(_ context.Context, _ uuid.UUID, _ dto.RenameCategoryRequest) (*model.Category, error) {
	return nil, errors.New("not implemented")
}
func (s *stubCatalog) DeleteCategory(_ context.Context, _ uuid.UUID) error {
	return errors.New("not implemented")
}

var _ CatalogService = (*stubCatalog)(nil)

// ── Tests ─────────────────────────────────────────────────────────────────────

func testProduct(name string, price int64, stock int) model.Product {
	return model.Product{ID: uuid.New(), Name: name, Price: decimal.NewFromInt(price), Stock: stock}
}

func TestAddLineNewAndIncrement(t *testing.T) {
	p := testProduct("Water", 4000, 5)
	cart := NewCartService(newStubCatalog(p))
	ctx := context.Background()

	lines, err := cart.AddLine(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Qty)
	assert.Equal(t, "Water", lines[0].Name)

	lines, err = cart.AddLine(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Qty)
}

func TestAddLineZeroStockIsSilentNoop(t *testing.T) {
	p := testProduct("Water", 4000, 0)
	cart := NewCartService(newStubCatalog(p))

	lines, err := cart.AddLine(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestAddLineAtStockCeilingIsSilentNoop(t *testing.T) {
	p := testProduct("Water", 4000, 2)
	cart := NewCartService(newStubCatalog(p))
	ctx := context.Background()

	_, _ = cart.AddLine(ctx, p.ID)
	_, _ = cart.AddLine(ctx, p.ID)
	lines, err := cart.AddLine(ctx, p.ID) // third unit exceeds stock 2
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Qty)
}

func TestAddLineUnknownProduct(t *testing.T) {
	cart := NewCartService(newStubCatalog())

	_, err := cart.AddLine(context.Background(), uuid.New())
	var notFound *ProductNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestAddLineSnapshotsPriceAtAddTime(t *testing.T) {
	p := testProduct("Water", 4000, 5)
	catalog := newStubCatalog(p)
	cart := NewCartService(catalog)
	ctx := context.Background()

	_, err := cart.AddLine(ctx, p.ID)
	require.NoError(t, err)

	// Catalog price change must not alter the open cart line.
	changed := catalog.products[p.ID]
	changed.Price = decimal.NewFromInt(9000)
	catalog.products[p.ID] = changed

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.True(t, lines[0].Price.Equal(decimal.NewFromInt(4000)))
}

func TestSetQuantity(t *testing.T) {
	p := testProduct("Water", 4000, 10)
	cart := NewCartService(newStubCatalog(p))
	ctx := context.Background()

	_, err := cart.AddLine(ctx, p.ID)
	require.NoError(t, err)

	lines, err := cart.SetQuantity(ctx, p.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, lines[0].Qty)
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	p := testProduct("Water", 4000, 10)
	cart := NewCartService(newStubCatalog(p))
	ctx := context.Background()

	_, err := cart.AddLine(ctx, p.ID)
	require.NoError(t, err)

	lines, err := cart.SetQuantity(ctx, p.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestSetQuantityAboveStockRejected(t *testing.T) {
	p := testProduct("Water", 4000, 3)
	cart := NewCartService(newStubCatalog(p))
	ctx := context.Background()

	_, err := cart.AddLine(ctx, p.ID)
	require.NoError(t, err)

	_, err = cart.SetQuantity(ctx, p.ID, 4)
	var exceeded *StockExceededError
	require.ErrorAs(t, err, &exceeded)
	assert.Equal(t, 4, exceeded.Requested)
	assert.Equal(t, 3, exceeded.Available)

	// Line unchanged, not clamped
	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Qty)
}

func TestSetQuantityMissingLine(t *testing.T) {
	p := testProduct("Water", 4000, 3)
	cart := NewCartService(newStubCatalog(p))

	_, err := cart.SetQuantity(context.Background(), p.ID, 2)
	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestRemoveLineAndClear(t *testing.T) {
	p1 := testProduct("Water", 4000, 5)
	p2 := testProduct("Chips", 11000, 5)
	cart := NewCartService(newStubCatalog(p1, p2))
	ctx := context.Background()

	_, _ = cart.AddLine(ctx, p1.ID)
	_, _ = cart.AddLine(ctx, p2.ID)
	require.Equal(t, 2, cart.LineCount())

	lines := cart.RemoveLine(p1.ID)
	require.Len(t, lines, 1)
	assert.Equal(t, p2.ID, lines[0].ProductID)

	cart.Clear()
	assert.Zero(t, cart.LineCount())
	assert.True(t, cart.Subtotal().IsZero())
}

func TestSubtotalRecomputed(t *testing.T) {
	p1 := testProduct("Water", 4000, 5)
	p2 := testProduct("Chips", 11000, 5)
	cart := NewCartService(newStubCatalog(p1, p2))
	ctx := context.Background()

	_, _ = cart.AddLine(ctx, p1.ID)
	_, _ = cart.AddLine(ctx, p1.ID)
	_, _ = cart.AddLine(ctx, p2.ID)

	assert.True(t, cart.Subtotal().Equal(decimal.NewFromInt(2*4000+11000)))
}

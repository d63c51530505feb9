package service

import (
	"context"
	"testing"

	"tokopos/internal/dto"
	"tokopos/internal/model"
	"tokopos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogFixture(remote bool) (CatalogService, *stubBackend) {
	backend := newStubBackend()
	backendFn := repository.BackendFunc(func() repository.Backend { return backend })
	selector := repository.Selector(func() bool { return remote })
	return NewCatalogService(backendFn, selector, backend), backend
}

func seedCategory(backend *stubBackend, name string) model.Category {
	c := model.Category{ID: uuid.New(), Name: name}
	var existing []model.Category
	if v, ok := backend.collections[repository.CollectionCategories].([]model.Category); ok {
		existing = v
	}
	backend.collections[repository.CollectionCategories] = append(existing, c)
	return c
}

func TestCreateProductRequiresExistingCategory(t *testing.T) {
	svc, _ := newCatalogFixture(false)

	_, err := svc.CreateProduct(context.Background(), dto.CreateProductRequest{
		Name:       "Water",
		Price:      decimal.NewFromInt(4000),
		CategoryID: uuid.NewString(),
		Stock:      10,
	})
	assert.Error(t, err)
}

func TestCreateProductRejectsNonPositivePrice(t *testing.T) {
	svc, backend := newCatalogFixture(false)
	cat := seedCategory(backend, "Drinks")

	_, err := svc.CreateProduct(context.Background(), dto.CreateProductRequest{
		Name:       "Water",
		Price:      decimal.Zero,
		CategoryID: cat.ID.String(),
	})
	assert.Error(t, err)
}

func TestCreateProductPersists(t *testing.T) {
	svc, backend := newCatalogFixture(false)
	cat := seedCategory(backend, "Drinks")
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, dto.CreateProductRequest{
		Name:       "Water",
		Price:      decimal.NewFromInt(4000),
		CategoryID: cat.ID.String(),
		Stock:      10,
	})
	require.NoError(t, err)
	assert.Equal(t, cat.ID, p.CategoryID)

	got, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Water", got.Name)
	assert.Equal(t, 10, got.Stock)
}

func TestCatalogMutationsBlockedInRemoteMode(t *testing.T) {
	svc, backend := newCatalogFixture(true)
	cat := seedCategory(backend, "Drinks")
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, dto.CreateProductRequest{
		Name: "Water", Price: decimal.NewFromInt(4000), CategoryID: cat.ID.String(),
	})
	assert.ErrorIs(t, err, ErrRemoteManaged)

	_, err = svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Snacks"})
	assert.ErrorIs(t, err, ErrRemoteManaged)

	err = svc.DeleteCategory(ctx, cat.ID)
	assert.ErrorIs(t, err, ErrRemoteManaged)

	_, err = svc.AdjustStock(ctx, uuid.New(), 1, "restock")
	assert.ErrorIs(t, err, ErrRemoteManaged)
}

func TestDeleteCategoryGuards(t *testing.T) {
	svc, backend := newCatalogFixture(false)
	drinks := seedCategory(backend, "Drinks")
	snacks := seedCategory(backend, "Snacks")
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, dto.CreateProductRequest{
		Name: "Water", Price: decimal.NewFromInt(4000), CategoryID: drinks.ID.String(),
	})
	require.NoError(t, err)

	// Still referenced by a product
	err = svc.DeleteCategory(ctx, drinks.ID)
	assert.Error(t, err)

	// Unreferenced category deletes fine
	require.NoError(t, svc.DeleteCategory(ctx, snacks.ID))

	// Last remaining category cannot be deleted even once unreferenced
	require.NoError(t, svc.DeleteProduct(ctx, mustOnlyProduct(t, svc).ID))
	err = svc.DeleteCategory(ctx, drinks.ID)
	assert.Error(t, err)
}

func TestCreateCategoryRejectsDuplicateName(t *testing.T) {
	svc, backend := newCatalogFixture(false)
	seedCategory(backend, "Drinks")

	_, err := svc.CreateCategory(context.Background(), dto.CreateCategoryRequest{Name: "Drinks"})
	assert.Error(t, err)
}

func TestAdjustStockFloorsAtZeroAndLogs(t *testing.T) {
	svc, backend := newCatalogFixture(false)
	cat := seedCategory(backend, "Drinks")
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, dto.CreateProductRequest{
		Name: "Water", Price: decimal.NewFromInt(4000), CategoryID: cat.ID.String(), Stock: 3,
	})
	require.NoError(t, err)

	updated, err := svc.AdjustStock(ctx, p.ID, -5, "breakage")
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Stock)

	updated, err = svc.AdjustStock(ctx, p.ID, 10, "restock")
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Stock)

	var logs []model.StockLog
	require.NoError(t, backend.ReadCollection(ctx, repository.CollectionStockLogs, &logs))
	require.Len(t, logs, 2)
	assert.Equal(t, model.StockOut, logs[0].Type)
	assert.Equal(t, 5, logs[0].Amount)
	assert.Equal(t, model.StockIn, logs[1].Type)
	assert.Equal(t, 10, logs[1].Amount)
}

func mustOnlyProduct(t *testing.T, svc CatalogService) model.Product {
	t.Helper()
	products, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	return products[0]
}

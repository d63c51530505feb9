package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tokopos/internal/dto"
	"tokopos/internal/model"
	"tokopos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrRemoteManaged is returned by catalog mutations while remote mode is
// active: the backend owns the catalog then, and writing the local snapshot
// would create a second source of truth.
var ErrRemoteManaged = errors.New("catalog is managed by the remote backend")

// CatalogService reads and manages the Category/Product snapshot. Reads are
// selector-routed (remote with local fallback, or local); mutations are
// local-only operations.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	AdjustStock(ctx context.Context, id uuid.UUID, delta int, note string) (*model.Product, error)

	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*model.Category, error)
	RenameCategory(ctx context.Context, id uuid.UUID, req dto.RenameCategoryRequest) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	backend  repository.BackendFunc
	selector repository.Selector
	local    repository.Backend
}

func NewCatalogService(backend repository.BackendFunc, selector repository.Selector, local repository.Backend) CatalogService {
	return &catalogService{backend: backend, selector: selector, local: local}
}

// ── Products ──────────────────────────────────────────────────────────────────

func (s *catalogService) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := s.backend().ReadCollection(ctx, repository.CollectionProducts, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, &ProductNotFoundError{ProductID: id}
}

func (s *catalogService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*model.Product, error) {
	if s.selector() {
		return nil, ErrRemoteManaged
	}
	if !req.Price.GreaterThan(decimal.Zero) {
		return nil, errors.New("price must be greater than zero")
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("invalid category_id: %w", err)
	}
	if err := s.requireCategory(ctx, categoryID); err != nil {
		return nil, err
	}

	var products []model.Product
	if err := s.local.ReadCollection(ctx, repository.CollectionProducts, &products); err != nil {
		return nil, err
	}

	p := model.Product{
		ID:         uuid.New(),
		Name:       req.Name,
		Price:      req.Price,
		CategoryID: categoryID,
		Stock:      req.Stock,
		Photo:      req.Photo,
		CreatedAt:  time.Now(),
	}
	products = append(products, p)

	if err := s.local.WriteCollection(ctx, repository.CollectionProducts, products); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*model.Product, error) {
	if s.selector() {
		return nil, ErrRemoteManaged
	}

	var products []model.Product
	if err := s.local.ReadCollection(ctx, repository.CollectionProducts, &products); err != nil {
		return nil, err
	}
	idx := findProduct(products, id)
	if idx < 0 {
		return nil, &ProductNotFoundError{ProductID: id}
	}

	p := &products[idx]
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Price != nil {
		if !req.Price.GreaterThan(decimal.Zero) {
			return nil, errors.New("price must be greater than zero")
		}
		p.Price = *req.Price
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("invalid category_id: %w", err)
		}
		if err := s.requireCategory(ctx, categoryID); err != nil {
			return nil, err
		}
		p.CategoryID = categoryID
	}
	if req.Photo != nil {
		p.Photo = req.Photo
	}

	if err := s.local.WriteCollection(ctx, repository.CollectionProducts, products); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if s.selector() {
		return ErrRemoteManaged
	}

	var products []model.Product
	if err := s.local.ReadCollection(ctx, repository.CollectionProducts, &products); err != nil {
		return err
	}
	idx := findProduct(products, id)
	if idx < 0 {
		return &ProductNotFoundError{ProductID: id}
	}
	products = append(products[:idx], products[idx+1:]...)
	return s.local.WriteCollection(ctx, repository.CollectionProducts, products)
}

// AdjustStock applies a signed correction to a product's stock. The result
// is floored at zero like the sale path, and every adjustment leaves a
// StockLog so a wrong sale can be corrected by an inverse, equally-logged
// adjustment instead of mutating history.
func (s *catalogService) AdjustStock(ctx context.Context, id uuid.UUID, delta int, note string) (*model.Product, error) {
	if s.selector() {
		return nil, ErrRemoteManaged
	}
	if delta == 0 {
		return nil, errors.New("delta must be non-zero")
	}

	var products []model.Product
	if err := s.local.ReadCollection(ctx, repository.CollectionProducts, &products); err != nil {
		return nil, err
	}
	idx := findProduct(products, id)
	if idx < 0 {
		return nil, &ProductNotFoundError{ProductID: id}
	}

	p := &products[idx]
	newStock := p.Stock + delta
	if newStock < 0 {
		newStock = 0
	}

	logType := model.StockIn
	amount := delta
	if delta < 0 {
		logType = model.StockOut
		amount = -delta
	}

	var logs []model.StockLog
	if err := s.local.ReadCollection(ctx, repository.CollectionStockLogs, &logs); err != nil {
		return nil, err
	}
	logs = append(logs, model.StockLog{
		ID:        uuid.New(),
		ProductID: p.ID,
		Type:      logType,
		Amount:    amount,
		Note:      note,
		CreatedAt: time.Now(),
	})

	p.Stock = newStock
	if err := s.local.WriteCollection(ctx, repository.CollectionProducts, products); err != nil {
		return nil, err
	}
	if err := s.local.WriteCollection(ctx, repository.CollectionStockLogs, logs); err != nil {
		return nil, err
	}
	return p, nil
}

// ── Categories ────────────────────────────────────────────────────────────────

func (s *catalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := s.backend().ReadCollection(ctx, repository.CollectionCategories, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *catalogService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*model.Category, error) {
	if s.selector() {
		return nil, ErrRemoteManaged
	}

	var categories []model.Category
	if err := s.local.ReadCollection(ctx, repository.CollectionCategories, &categories); err != nil {
		return nil, err
	}
	for _, c := range categories {
		if c.Name == req.Name {
			return nil, errors.New("a category with that name already exists")
		}
	}

	c := model.Category{ID: uuid.New(), Name: req.Name, CreatedAt: time.Now()}
	categories = append(categories, c)
	if err := s.local.WriteCollection(ctx, repository.CollectionCategories, categories); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *catalogService) RenameCategory(ctx context.Context, id uuid.UUID, req dto.RenameCategoryRequest) (*model.Category, error) {
	if s.selector() {
		return nil, ErrRemoteManaged
	}

	var categories []model.Category
	if err := s.local.ReadCollection(ctx, repository.CollectionCategories, &categories); err != nil {
		return nil, err
	}
	idx := -1
	for i := range categories {
		if categories[i].ID == id {
			idx = i
		} else if categories[i].Name == req.Name {
			return nil, errors.New("a category with that name already exists")
		}
	}
	if idx < 0 {
		return nil, errors.New("category not found")
	}

	categories[idx].Name = req.Name
	if err := s.local.WriteCollection(ctx, repository.CollectionCategories, categories); err != nil {
		return nil, err
	}
	return &categories[idx], nil
}

// DeleteCategory refuses to delete a category that any product still
// references, and refuses to delete the last remaining category.
func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if s.selector() {
		return ErrRemoteManaged
	}

	var categories []model.Category
	if err := s.local.ReadCollection(ctx, repository.CollectionCategories, &categories); err != nil {
		return err
	}
	idx := -1
	for i := range categories {
		if categories[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errors.New("category not found")
	}
	if len(categories) == 1 {
		return errors.New("cannot delete the last remaining category")
	}

	var products []model.Product
	if err := s.local.ReadCollection(ctx, repository.CollectionProducts, &products); err != nil {
		return err
	}
	for _, p := range products {
		if p.CategoryID == id {
			return fmt.Errorf("category is still referenced by product %q", p.Name)
		}
	}

	categories = append(categories[:idx], categories[idx+1:]...)
	return s.local.WriteCollection(ctx, repository.CollectionCategories, categories)
}

func (s *catalogService) requireCategory(ctx context.Context, id uuid.UUID) error {
	var categories []model.Category
	if err := s.local.ReadCollection(ctx, repository.CollectionCategories, &categories); err != nil {
		return err
	}
	for _, c := range categories {
		if c.ID == id {
			return nil
		}
	}
	return errors.New("category not found")
}

func findProduct(products []model.Product, id uuid.UUID) int {
	for i := range products {
		if products[i].ID == id {
			return i
		}
	}
	return -1
}

package products

import (
	"context"
	stdErrors "errors"
	"strings"

	"github.com/wiryasaputra/gerai-backend/internal/inventory"
	"github.com/wiryasaputra/gerai-backend/pkg/db"
	"github.com/wiryasaputra/gerai-backend/pkg/db/models"
	"github.com/wiryasaputra/gerai-backend/pkg/errors"
	"gorm.io/gorm"
)

// DefaultLowStockThreshold flags products running out when no explicit
// threshold is supplied.
const DefaultLowStockThreshold = 10

// ServiceParams groups dependencies for the product service.
type ServiceParams struct {
	Client    *db.Client
	Repo      Repository
	Inventory *inventory.Ledger
}

// Service orchestrates product catalog operations. Catalog writes go
// through the repository; stock moves only through the inventory ledger.
type Service struct {
	client    *db.Client
	repo      Repository
	inventory *inventory.Ledger
}

// NewService builds a product service.
func NewService(params ServiceParams) (*Service, error) {
	switch {
	case params.Client == nil:
		return nil, stdErrors.New("db client is required")
	case params.Repo == nil:
		return nil, stdErrors.New("repo is required")
	case params.Inventory == nil:
		return nil, stdErrors.New("inventory ledger is required")
	}
	return &Service{
		client:    params.Client,
		repo:      params.Repo,
		inventory: params.Inventory,
	}, nil
}

// CreateInput carries the fields accepted when listing a product.
type CreateInput struct {
	Name         string
	Description  *string
	Price        int64
	Cost         int64
	InitialStock int
	Unit         string
	Category     *string
}

// UpdateInput carries the catalog fields accepted when editing a product.
// Stock is deliberately absent.
type UpdateInput struct {
	Name        string
	Description *string
	Price       int64
	Cost        int64
	Unit        string
	Category    *string
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.New(errors.CodeValidation, "product name is required")
	}
	if input.Price < 0 || input.Cost < 0 {
		return nil, errors.New(errors.CodeValidation, "price and cost must not be negative")
	}
	if input.InitialStock < 0 {
		return nil, errors.New(errors.CodeValidation, "initial stock must not be negative")
	}

	unit := strings.TrimSpace(input.Unit)
	if unit == "" {
		unit = "pcs"
	}

	product := &models.Product{
		Name:        name,
		Description: input.Description,
		Price:       input.Price,
		Cost:        input.Cost,
		Stock:       input.InitialStock,
		Unit:        unit,
		Category:    input.Category,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, db.WrapPersistence(err, "creating product")
	}
	return product, nil
}

func (s *Service) Update(ctx context.Context, id uint, input UpdateInput) (*models.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.New(errors.CodeValidation, "product name is required")
	}
	if input.Price < 0 || input.Cost < 0 {
		return nil, errors.New(errors.CodeValidation, "price and cost must not be negative")
	}

	product.Name = name
	product.Description = input.Description
	product.Price = input.Price
	product.Cost = input.Cost
	if unit := strings.TrimSpace(input.Unit); unit != "" {
		product.Unit = unit
	}
	product.Category = input.Category
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, db.WrapPersistence(err, "updating product")
	}
	return s.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.WrapPersistence(err, "finding product")
	}
	if product == nil {
		return nil, errors.New(errors.CodeNotFound, "product not found")
	}
	return product, nil
}

func (s *Service) List(ctx context.Context, params ListQuery) ([]models.Product, error) {
	list, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, db.WrapPersistence(err, "listing products")
	}
	return list, nil
}

func (s *Service) ListLowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	list, err := s.repo.ListLowStock(ctx, threshold)
	if err != nil {
		return nil, db.WrapPersistence(err, "listing low stock products")
	}
	return list, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, db.WrapPersistence(err, "listing categories")
	}
	return categories, nil
}

// Restock moves stock by delta outside any order: positive for incoming
// goods, negative for shrinkage write-offs. The ledger still refuses a
// result below zero.
func (s *Service) Restock(ctx context.Context, id uint, delta int) (*models.Product, error) {
	if delta == 0 {
		return nil, errors.New(errors.CodeValidation, "stock delta must not be zero")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.inventory.Adjust(tx, id, delta)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a product no order line references. Referenced products
// stay so past orders keep pointing at a real row.
func (s *Service) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.CountOrderLines(ctx, id)
	if err != nil {
		return db.WrapPersistence(err, "counting product references")
	}
	if count > 0 {
		return errors.New(errors.CodeStateConflict, "product is referenced by orders").
			WithDetails(map[string]any{"order_line_count": count})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return db.WrapPersistence(err, "deleting product")
	}
	return nil
}

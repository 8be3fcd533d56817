package customers

import (
	"context"
	stdErrors "errors"
	"strings"

	"github.com/wiryasaputra/gerai-backend/pkg/db"
	"github.com/wiryasaputra/gerai-backend/pkg/db/models"
	"github.com/wiryasaputra/gerai-backend/pkg/errors"
)

// ServiceParams groups dependencies for the customer service.
type ServiceParams struct {
	Repo Repository
}

// Service orchestrates customer operations.
type Service struct {
	repo Repository
}

// NewService builds a customer service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, stdErrors.New("repo is required")
	}
	return &Service{repo: params.Repo}, nil
}

// CreateInput carries the fields accepted when registering a customer.
type CreateInput struct {
	Name    string
	Phone   *string
	Email   *string
	Address *string
}

// UpdateInput carries the fields accepted when editing a customer.
type UpdateInput = CreateInput

func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Customer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.New(errors.CodeValidation, "customer name is required")
	}

	customer := &models.Customer{
		Name:    name,
		Phone:   input.Phone,
		Email:   input.Email,
		Address: input.Address,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, db.WrapPersistence(err, "creating customer")
	}
	return customer, nil
}

func (s *Service) Update(ctx context.Context, id uint, input UpdateInput) (*models.Customer, error) {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.New(errors.CodeValidation, "customer name is required")
	}

	customer.Name = name
	customer.Phone = input.Phone
	customer.Email = input.Email
	customer.Address = input.Address
	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, db.WrapPersistence(err, "updating customer")
	}
	return customer, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.WrapPersistence(err, "finding customer")
	}
	if customer == nil {
		return nil, errors.New(errors.CodeNotFound, "customer not found")
	}
	return customer, nil
}

func (s *Service) List(ctx context.Context, params ListQuery) ([]models.Customer, error) {
	list, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, db.WrapPersistence(err, "listing customers")
	}
	return list, nil
}

// Delete removes a customer that has no orders. Customers referenced by
// orders stay, so historical documents keep resolving.
func (s *Service) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.CountOrders(ctx, id)
	if err != nil {
		return db.WrapPersistence(err, "counting customer orders")
	}
	if count > 0 {
		return errors.New(errors.CodeStateConflict, "customer has orders").
			WithDetails(map[string]any{"order_count": count})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return db.WrapPersistence(err, "deleting customer")
	}
	return nil
}

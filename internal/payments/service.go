package payments

import (
	"context"
	stdErrors "errors"
	"strings"
	"time"

	"github.com/wiryasaputra/gerai-backend/pkg/db"
	"github.com/wiryasaputra/gerai-backend/pkg/db/models"
	"github.com/wiryasaputra/gerai-backend/pkg/enums"
	"github.com/wiryasaputra/gerai-backend/pkg/errors"
)

// ServiceParams groups dependencies for the ledger service.
type ServiceParams struct {
	Repo Repository
}

// Service posts and reads standalone ledger entries (rent, utilities,
// supplier purchases). Order payments go through the order service so they
// update the order in the same transaction.
type Service struct {
	repo Repository
}

// NewService builds a ledger service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, stdErrors.New("repo is required")
	}
	return &Service{repo: params.Repo}, nil
}

// PostInput carries the fields accepted for a standalone ledger entry.
type PostInput struct {
	Type          enums.EntryType
	Category      string
	Amount        int64
	Description   *string
	Date          *time.Time
	PaymentMethod enums.PaymentMethod
}

func (s *Service) Post(ctx context.Context, input PostInput) (*models.PaymentRecord, error) {
	if !input.Type.IsValid() {
		return nil, errors.New(errors.CodeValidation, "entry type must be income or expense")
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, errors.New(errors.CodeValidation, "category is required")
	}
	if input.Amount <= 0 {
		return nil, errors.New(errors.CodeValidation, "amount must be positive")
	}

	method := input.PaymentMethod
	if method == "" {
		method = enums.PaymentMethodCash
	}
	if !method.IsValid() {
		return nil, errors.New(errors.CodeValidation, "unknown payment method")
	}

	date := time.Now().UTC()
	if input.Date != nil {
		date = *input.Date
	}

	record := &models.PaymentRecord{
		Type:          input.Type,
		Category:      category,
		Amount:        input.Amount,
		Description:   input.Description,
		Date:          date,
		PaymentMethod: method,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, db.WrapPersistence(err, "posting ledger entry")
	}
	return record, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*models.PaymentRecord, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.WrapPersistence(err, "finding ledger entry")
	}
	if record == nil {
		return nil, errors.New(errors.CodeNotFound, "ledger entry not found")
	}
	return record, nil
}

func (s *Service) List(ctx context.Context, params ListQuery) ([]models.PaymentRecord, error) {
	list, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, db.WrapPersistence(err, "listing ledger entries")
	}
	return list, nil
}

func (s *Service) ListByOrder(ctx context.Context, orderID uint) ([]models.PaymentRecord, error) {
	list, err := s.repo.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, db.WrapPersistence(err, "listing order payments")
	}
	return list, nil
}

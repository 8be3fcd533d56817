package invoices

import (
	"context"
	stdErrors "errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wiryasaputra/gerai-backend/internal/orders"
	"github.com/wiryasaputra/gerai-backend/internal/sequence"
	"github.com/wiryasaputra/gerai-backend/pkg/db"
	"github.com/wiryasaputra/gerai-backend/pkg/db/models"
	"github.com/wiryasaputra/gerai-backend/pkg/enums"
	"github.com/wiryasaputra/gerai-backend/pkg/errors"
	"gorm.io/gorm"
)

// ServiceParams groups dependencies for the invoice service.
type ServiceParams struct {
	Client        *db.Client
	Repo          Repository
	Orders        orders.Repository
	Sequence      *sequence.Generator
	InvoicePrefix string
	TaxPercent    float64
}

// Service issues and reads invoices. An invoice is a snapshot: once issued
// its amounts never change, even when the order is paid down afterwards.
type Service struct {
	client   *db.Client
	repo     Repository
	orders   orders.Repository
	sequence *sequence.Generator
	prefix   string
	taxRate  float64
}

// NewService builds an invoice service.
func NewService(params ServiceParams) (*Service, error) {
	switch {
	case params.Client == nil:
		return nil, stdErrors.New("db client is required")
	case params.Repo == nil:
		return nil, stdErrors.New("repo is required")
	case params.Orders == nil:
		return nil, stdErrors.New("orders repo is required")
	case params.Sequence == nil:
		return nil, stdErrors.New("sequence generator is required")
	}

	prefix := params.InvoicePrefix
	if prefix == "" {
		prefix = "INV"
	}
	return &Service{
		client:   params.Client,
		repo:     params.Repo,
		orders:   params.Orders,
		sequence: params.Sequence,
		prefix:   prefix,
		taxRate:  params.TaxPercent,
	}, nil
}

// IssueInput carries the fields accepted when issuing an invoice.
type IssueInput struct {
	OrderID    uint
	DueDate    *time.Time
	Notes      *string
	TaxPercent *float64
}

// taxAmount computes the tax on subtotal in whole currency units,
// half-up rounded.
func taxAmount(subtotal int64, percent float64) int64 {
	return decimal.NewFromInt(subtotal).
		Mul(decimal.NewFromFloat(percent)).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}

// Issue creates the invoice for an order. One active invoice per order; a
// voided invoice frees the order for reissue.
func (s *Service) Issue(ctx context.Context, input IssueInput) (*models.Invoice, error) {
	rate := s.taxRate
	if input.TaxPercent != nil {
		rate = *input.TaxPercent
	}
	if rate < 0 {
		return nil, errors.New(errors.CodeValidation, "tax percent must not be negative")
	}

	invoice := &models.Invoice{}
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		order, err := s.orders.WithTx(tx).FindByIDForUpdate(ctx, input.OrderID)
		if err != nil {
			return db.WrapPersistence(err, "locking order")
		}
		if order == nil {
			return errors.New(errors.CodeNotFound, "order not found")
		}

		repo := s.repo.WithTx(tx)
		existing, err := repo.FindByOrderID(ctx, input.OrderID)
		if err != nil {
			return db.WrapPersistence(err, "finding existing invoice")
		}
		if existing != nil {
			return errors.New(errors.CodeStateConflict, "order already has an active invoice").
				WithDetails(map[string]any{"invoice_number": existing.InvoiceNumber})
		}

		issueDate := time.Now().UTC()
		number, err := s.sequence.Next(tx, s.prefix, issueDate)
		if err != nil {
			return err
		}

		subtotal := order.TotalAmount
		tax := taxAmount(subtotal, rate)
		total := subtotal + tax

		*invoice = models.Invoice{
			InvoiceNumber: number,
			OrderID:       order.ID,
			CustomerID:    order.CustomerID,
			IssueDate:     issueDate,
			DueDate:       input.DueDate,
			Status:        statusFor(total, order.PaidAmount),
			Subtotal:      subtotal,
			TaxRate:       rate,
			TaxAmount:     tax,
			TotalAmount:   total,
			Notes:         input.Notes,
		}
		if err := repo.Create(ctx, invoice); err != nil {
			return db.WrapPersistence(err, "creating invoice")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// statusFor maps collected money onto the invoice status at issue time.
func statusFor(total, paid int64) enums.InvoiceStatus {
	switch {
	case paid <= 0:
		return enums.InvoiceStatusUnpaid
	case paid < total:
		return enums.InvoiceStatusPartial
	default:
		return enums.InvoiceStatusPaid
	}
}

// Void retires an invoice. The row stays for the audit trail.
func (s *Service) Void(ctx context.Context, id uint) (*models.Invoice, error) {
	invoice, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status == enums.InvoiceStatusVoid {
		return nil, errors.New(errors.CodeStateConflict, "invoice is already void")
	}

	if err := s.repo.UpdateStatus(ctx, id, enums.InvoiceStatusVoid); err != nil {
		return nil, db.WrapPersistence(err, "voiding invoice")
	}
	return s.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.WrapPersistence(err, "finding invoice")
	}
	if invoice == nil {
		return nil, errors.New(errors.CodeNotFound, "invoice not found")
	}
	return invoice, nil
}

func (s *Service) List(ctx context.Context, params ListQuery) ([]models.Invoice, error) {
	list, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, db.WrapPersistence(err, "listing invoices")
	}
	return list, nil
}

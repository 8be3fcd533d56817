package orders

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/wiryasaputra/gerai-backend/internal/customers"
	"github.com/wiryasaputra/gerai-backend/internal/inventory"
	"github.com/wiryasaputra/gerai-backend/internal/payments"
	"github.com/wiryasaputra/gerai-backend/internal/products"
	"github.com/wiryasaputra/gerai-backend/internal/sequence"
	"github.com/wiryasaputra/gerai-backend/pkg/db"
	"github.com/wiryasaputra/gerai-backend/pkg/db/models"
	"github.com/wiryasaputra/gerai-backend/pkg/enums"
	"github.com/wiryasaputra/gerai-backend/pkg/errors"
	"github.com/wiryasaputra/gerai-backend/pkg/logger"
	"github.com/wiryasaputra/gerai-backend/pkg/metrics"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// Ledger entry categories written by order operations.
const (
	categoryOrderPayment = "order_payment"
	categoryOrderRefund  = "order_refund"
)

// ServiceParams groups dependencies for the order service.
type ServiceParams struct {
	Client      *db.Client
	Repo        Repository
	Customers   customers.Repository
	Products    products.Repository
	Payments    payments.Repository
	Inventory   *inventory.Ledger
	Sequence    *sequence.Generator
	Metrics     *metrics.Metrics
	Log         *logger.Logger
	OrderPrefix string
}

// Service owns the order aggregate. Every mutation runs as one transaction:
// stock, lines, totals and the ledger either all move or none do.
type Service struct {
	client    *db.Client
	repo      Repository
	customers customers.Repository
	products  products.Repository
	payments  payments.Repository
	inventory *inventory.Ledger
	sequence  *sequence.Generator
	metrics   *metrics.Metrics
	log       *logger.Logger
	prefix    string
}

// NewService builds an order service.
func NewService(params ServiceParams) (*Service, error) {
	switch {
	case params.Client == nil:
		return nil, stdErrors.New("db client is required")
	case params.Repo == nil:
		return nil, stdErrors.New("repo is required")
	case params.Customers == nil:
		return nil, stdErrors.New("customers repo is required")
	case params.Products == nil:
		return nil, stdErrors.New("products repo is required")
	case params.Payments == nil:
		return nil, stdErrors.New("payments repo is required")
	case params.Inventory == nil:
		return nil, stdErrors.New("inventory ledger is required")
	case params.Sequence == nil:
		return nil, stdErrors.New("sequence generator is required")
	}

	prefix := params.OrderPrefix
	if prefix == "" {
		prefix = "ORD"
	}
	return &Service{
		client:    params.Client,
		repo:      params.Repo,
		customers: params.Customers,
		products:  params.Products,
		payments:  params.Payments,
		inventory: params.Inventory,
		sequence:  params.Sequence,
		metrics:   params.Metrics,
		log:       params.Log,
		prefix:    prefix,
	}, nil
}

// deriveStatus maps the money pair onto the order status. The first match
// wins, so a zero-total order with no payment reads as unpaid.
func deriveStatus(total, paid int64) enums.OrderStatus {
	switch {
	case paid <= 0:
		return enums.OrderStatusUnpaid
	case paid < total:
		return enums.OrderStatusPartial
	default:
		return enums.OrderStatusPaid
	}
}

// LineInput carries one requested order line.
type LineInput struct {
	ProductID uint
	Quantity  int
}

// CreateInput carries the fields accepted when opening an order.
type CreateInput struct {
	CustomerID uint
	OrderDate  *time.Time
	DueDate    *time.Time
	Notes      *string
	Lines      []LineInput
}

// Create opens an order for a known customer. Lines are optional; an order
// created without them stays pending until the first line or payment.
func (s *Service) Create(ctx context.Context, input CreateInput) (*OrderView, error) {
	for i, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, errors.New(errors.CodeValidation, "line quantity must be positive").
				WithDetails(map[string]any{"line_index": i})
		}
	}

	customer, err := s.customers.FindByID(ctx, input.CustomerID)
	if err != nil {
		return nil, db.WrapPersistence(err, "finding customer")
	}
	if customer == nil {
		return nil, errors.New(errors.CodeNotFound, "customer not found")
	}

	orderDate := time.Now().UTC()
	if input.OrderDate != nil {
		orderDate = *input.OrderDate
	}

	// Built fresh on every attempt: WithTx may re-run the closure after a
	// transient rollback, and a half-populated row must not leak across.
	var order *models.Order

	err = s.client.WithTx(ctx, func(tx *gorm.DB) error {
		order = &models.Order{
			CustomerID: input.CustomerID,
			OrderDate:  orderDate,
			DueDate:    input.DueDate,
			Status:     enums.OrderStatusPending,
			Notes:      input.Notes,
		}

		number, err := s.sequence.Next(tx, s.prefix, orderDate)
		if err != nil {
			return err
		}
		order.OrderNumber = number

		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, order); err != nil {
			return db.WrapPersistence(err, "creating order")
		}

		var total int64
		for _, line := range input.Lines {
			lineTotal, err := s.applyLine(ctx, tx, order.ID, line)
			if err != nil {
				return err
			}
			total += lineTotal
		}
		if len(input.Lines) > 0 {
			order.TotalAmount = total
			order.Status = deriveStatus(total, order.PaidAmount)
			if err := repo.Save(ctx, order); err != nil {
				return db.WrapPersistence(err, "saving order totals")
			}
		}
		return nil
	})
	if err != nil {
		s.noteStockRejection(err)
		return nil, err
	}

	s.metrics.IncOrdersCreated()
	if s.log != nil {
		s.log.Info(s.log.WithOrderNumber(ctx, order.OrderNumber), "order created")
	}
	return s.Get(ctx, order.ID)
}

// applyLine consumes stock and inserts one line, returning its total.
// Runs inside the caller's transaction.
func (s *Service) applyLine(ctx context.Context, tx *gorm.DB, orderID uint, input LineInput) (int64, error) {
	product, err := s.products.WithTx(tx).FindByID(ctx, input.ProductID)
	if err != nil {
		return 0, db.WrapPersistence(err, "finding product")
	}
	if product == nil {
		return 0, errors.New(errors.CodeNotFound, "product not found").
			WithDetails(map[string]any{"product_id": input.ProductID})
	}

	if _, err := s.inventory.Adjust(tx, input.ProductID, -input.Quantity); err != nil {
		return 0, err
	}

	line := &models.OrderLine{
		OrderID:   orderID,
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		Price:     product.Price,
		Total:     int64(input.Quantity) * product.Price,
	}
	if err := s.repo.WithTx(tx).CreateLine(ctx, line); err != nil {
		return 0, db.WrapPersistence(err, "creating order line")
	}
	return line.Total, nil
}

// AddLine appends a line to an existing order. Stock, the line row, the
// total and the status move in one transaction.
func (s *Service) AddLine(ctx context.Context, orderID uint, input LineInput) (*OrderView, error) {
	if input.Quantity <= 0 {
		return nil, errors.New(errors.CodeValidation, "line quantity must be positive")
	}

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return db.WrapPersistence(err, "locking order")
		}
		if order == nil {
			return errors.New(errors.CodeNotFound, "order not found")
		}

		if _, err := s.applyLine(ctx, tx, orderID, input); err != nil {
			return err
		}
		return s.recompute(ctx, repo, order)
	})
	if err != nil {
		s.noteStockRejection(err)
		return nil, err
	}
	return s.Get(ctx, orderID)
}

// RemoveLine detaches a line and puts its stock back.
func (s *Service) RemoveLine(ctx context.Context, orderID, lineID uint) (*OrderView, error) {
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return db.WrapPersistence(err, "locking order")
		}
		if order == nil {
			return errors.New(errors.CodeNotFound, "order not found")
		}

		line, err := repo.FindLine(ctx, orderID, lineID)
		if err != nil {
			return db.WrapPersistence(err, "finding order line")
		}
		if line == nil {
			return errors.New(errors.CodeNotFound, "order line not found")
		}

		if _, err := s.inventory.Adjust(tx, line.ProductID, line.Quantity); err != nil {
			return err
		}
		if err := repo.DeleteLine(ctx, line.ID); err != nil {
			return db.WrapPersistence(err, "deleting order line")
		}
		return s.recompute(ctx, repo, order)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, orderID)
}

// recompute refreshes the order's total from its lines and re-derives the
// status. Runs inside the caller's transaction with the order locked.
func (s *Service) recompute(ctx context.Context, repo Repository, order *models.Order) error {
	total, err := repo.SumLineTotals(ctx, order.ID)
	if err != nil {
		return db.WrapPersistence(err, "summing order lines")
	}
	order.TotalAmount = total
	order.Status = deriveStatus(total, order.PaidAmount)
	if err := repo.Save(ctx, order); err != nil {
		return db.WrapPersistence(err, "saving order totals")
	}
	return nil
}

// PaymentInput carries one tendered payment against an order.
type PaymentInput struct {
	Amount      int64
	Method      enums.PaymentMethod
	Description *string
	Date        *time.Time
}

// AddPayment posts a payment. The ledger records the full tendered amount;
// the order is credited at most its remaining balance, with the excess
// reported back as Overpayment.
func (s *Service) AddPayment(ctx context.Context, orderID uint, input PaymentInput) (*PaymentResult, error) {
	if input.Amount <= 0 {
		return nil, errors.New(errors.CodeValidation, "payment amount must be positive")
	}
	method := input.Method
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

	result := &PaymentResult{}
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return db.WrapPersistence(err, "locking order")
		}
		if order == nil {
			return errors.New(errors.CodeNotFound, "order not found")
		}

		remaining := order.RemainingAmount()
		applied := input.Amount
		if applied > remaining {
			applied = remaining
		}
		if applied < 0 {
			applied = 0
		}

		record := &models.PaymentRecord{
			Type:          enums.EntryTypeIncome,
			Category:      categoryOrderPayment,
			Amount:        input.Amount,
			Description:   input.Description,
			Date:          date,
			OrderID:       &order.ID,
			PaymentMethod: method,
		}
		if err := s.payments.WithTx(tx).Create(ctx, record); err != nil {
			return db.WrapPersistence(err, "posting payment")
		}

		order.PaidAmount += applied
		order.Status = deriveStatus(order.TotalAmount, order.PaidAmount)
		if err := repo.Save(ctx, order); err != nil {
			return db.WrapPersistence(err, "saving order payment")
		}

		result.Record = record
		result.Applied = applied
		result.Overpayment = input.Amount - applied
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncPaymentsPosted()
	view, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	result.Order = view
	return result, nil
}

// Delete removes the order and its lines, restoring every line's stock.
// Ledger rows stay: history is append-only. When refundPaid is set and
// money had been collected, a negative compensating entry records the
// refund instead of rewriting the past.
func (s *Service) Delete(ctx context.Context, orderID uint, refundPaid bool) error {
	return s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return db.WrapPersistence(err, "locking order")
		}
		if order == nil {
			return errors.New(errors.CodeNotFound, "order not found")
		}

		invoiceCount, err := repo.CountInvoices(ctx, orderID)
		if err != nil {
			return db.WrapPersistence(err, "counting order invoices")
		}
		if invoiceCount > 0 {
			return errors.New(errors.CodeStateConflict, "order has issued invoices").
				WithDetails(map[string]any{"invoice_count": invoiceCount})
		}

		full, err := repo.FindByID(ctx, orderID)
		if err != nil {
			return db.WrapPersistence(err, "loading order lines")
		}

		var restoreErr error
		for _, line := range full.Lines {
			if _, err := s.inventory.Adjust(tx, line.ProductID, line.Quantity); err != nil {
				restoreErr = multierr.Append(restoreErr, err)
			}
		}
		if restoreErr != nil {
			return restoreErr
		}

		if err := repo.DeleteLines(ctx, orderID); err != nil {
			return db.WrapPersistence(err, "deleting order lines")
		}
		if err := repo.Delete(ctx, orderID); err != nil {
			return db.WrapPersistence(err, "deleting order")
		}

		if refundPaid && order.PaidAmount > 0 {
			description := fmt.Sprintf("refund for deleted order %s", order.OrderNumber)
			record := &models.PaymentRecord{
				Type:          enums.EntryTypeIncome,
				Category:      categoryOrderRefund,
				Amount:        -order.PaidAmount,
				Description:   &description,
				Date:          time.Now().UTC(),
				OrderID:       nil,
				PaymentMethod: enums.PaymentMethodCash,
			}
			if err := s.payments.WithTx(tx).Create(ctx, record); err != nil {
				return db.WrapPersistence(err, "posting refund")
			}
		}

		if s.log != nil {
			s.log.Info(s.log.WithOrderNumber(ctx, order.OrderNumber), "order deleted")
		}
		return nil
	})
}

// Get returns the read-only projection of one order.
func (s *Service) Get(ctx context.Context, orderID uint) (*OrderView, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, db.WrapPersistence(err, "finding order")
	}
	if order == nil {
		return nil, errors.New(errors.CodeNotFound, "order not found")
	}

	customer, err := s.customers.FindByID(ctx, order.CustomerID)
	if err != nil {
		return nil, db.WrapPersistence(err, "finding customer")
	}
	customerName := ""
	if customer != nil {
		customerName = customer.Name
	}

	productNames := make(map[uint]string, len(order.Lines))
	for _, line := range order.Lines {
		if _, ok := productNames[line.ProductID]; ok {
			continue
		}
		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			return nil, db.WrapPersistence(err, "finding product")
		}
		if product != nil {
			productNames[line.ProductID] = product.Name
		}
	}

	records, err := s.payments.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, db.WrapPersistence(err, "listing order payments")
	}

	return buildView(order, customerName, productNames, records), nil
}

// List returns matching orders with their lines.
func (s *Service) List(ctx context.Context, params ListQuery) ([]models.Order, error) {
	list, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, db.WrapPersistence(err, "listing orders")
	}
	return list, nil
}

func (s *Service) noteStockRejection(err error) {
	if errors.HasCode(err, errors.CodeInsufficientStock) {
		s.metrics.IncStockRejections()
	}
}

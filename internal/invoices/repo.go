package invoices

import (
	"context"
	"time"

	"github.com/wiryasaputra/gerai-backend/pkg/db/models"
	"github.com/wiryasaputra/gerai-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository handles invoice persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, invoice *models.Invoice) error
	UpdateStatus(ctx context.Context, id uint, status enums.InvoiceStatus) error
	FindByID(ctx context.Context, id uint) (*models.Invoice, error)
	FindByOrderID(ctx context.Context, orderID uint) (*models.Invoice, error)
	List(ctx context.Context, params ListQuery) ([]models.Invoice, error)
}

// ListQuery configures invoice list queries.
type ListQuery struct {
	CustomerID *uint
	Status     *enums.InvoiceStatus
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an invoice repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *repository) UpdateStatus(ctx context.Context, id uint, status enums.InvoiceStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.WithContext(ctx).First(&invoice, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *repository) FindByOrderID(ctx context.Context, orderID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.WithContext(ctx).
		Where("order_id = ? AND status <> ?", orderID, enums.InvoiceStatusVoid).
		Order("id DESC").
		First(&invoice).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *repository) List(ctx context.Context, params ListQuery) ([]models.Invoice, error) {
	query := r.db.WithContext(ctx).Model(&models.Invoice{})
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.From != nil {
		query = query.Where("issue_date >= ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("issue_date <= ?", *params.To)
	}
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}
	if params.Offset > 0 {
		query = query.Offset(params.Offset)
	}

	var list []models.Invoice
	if err := query.Order("issue_date DESC, id DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

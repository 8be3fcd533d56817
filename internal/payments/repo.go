package payments

import (
	"context"
	"time"

	"github.com/wiryasaputra/gerai-backend/pkg/db/models"
	"github.com/wiryasaputra/gerai-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository handles the financial ledger. The surface is append-only on
// purpose: there is no update or delete, a wrong posting is corrected by a
// counter-entry.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.PaymentRecord) error
	FindByID(ctx context.Context, id uint) (*models.PaymentRecord, error)
	ListByOrderID(ctx context.Context, orderID uint) ([]models.PaymentRecord, error)
	List(ctx context.Context, params ListQuery) ([]models.PaymentRecord, error)
}

// ListQuery configures ledger list queries.
type ListQuery struct {
	Type     *enums.EntryType
	Category string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, record *models.PaymentRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.PaymentRecord, error) {
	var record models.PaymentRecord
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repository) ListByOrderID(ctx context.Context, orderID uint) ([]models.PaymentRecord, error) {
	var list []models.PaymentRecord
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("date ASC, id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) List(ctx context.Context, params ListQuery) ([]models.PaymentRecord, error) {
	query := r.db.WithContext(ctx).Model(&models.PaymentRecord{})
	if params.Type != nil {
		query = query.Where("type = ?", *params.Type)
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.From != nil {
		query = query.Where("date >= ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("date <= ?", *params.To)
	}
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}
	if params.Offset > 0 {
		query = query.Offset(params.Offset)
	}

	var list []models.PaymentRecord
	if err := query.Order("date DESC, id DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

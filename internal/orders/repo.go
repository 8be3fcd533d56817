package orders

import (
	"context"
	"time"

	"github.com/wiryasaputra/gerai-backend/pkg/db/models"
	"github.com/wiryasaputra/gerai-backend/pkg/enums"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository handles order aggregate persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	Save(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Order, error)
	List(ctx context.Context, params ListQuery) ([]models.Order, error)
	Delete(ctx context.Context, id uint) error
	CreateLine(ctx context.Context, line *models.OrderLine) error
	FindLine(ctx context.Context, orderID, lineID uint) (*models.OrderLine, error)
	DeleteLine(ctx context.Context, lineID uint) error
	DeleteLines(ctx context.Context, orderID uint) error
	SumLineTotals(ctx context.Context, orderID uint) (int64, error)
	CountInvoices(ctx context.Context, orderID uint) (int64, error)
}

// ListQuery configures order list queries.
type ListQuery struct {
	CustomerID *uint
	Status     *enums.OrderStatus
	Unpaid     bool
	Number     string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an order repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) Save(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).
		Model(order).
		Select("total_amount", "paid_amount", "status", "due_date", "notes", "updated_at").
		Updates(order).Error
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&order, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDForUpdate loads the order with a row lock so concurrent mutations
// of the same order serialize. sqlite already serializes on its single
// write connection; the explicit lock only exists on postgres.
func (r *repository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Order, error) {
	query := r.db.WithContext(ctx)
	if query.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var order models.Order
	if err := query.First(&order, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context, params ListQuery) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{}).Preload("Lines")
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Unpaid {
		query = query.Where("paid_amount < total_amount")
	}
	if params.Number != "" {
		query = query.Where("order_number LIKE ?", "%"+params.Number+"%")
	}
	if params.From != nil {
		query = query.Where("order_date >= ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("order_date <= ?", *params.To)
	}
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}
	if params.Offset > 0 {
		query = query.Offset(params.Offset)
	}

	var list []models.Order
	if err := query.Order("order_date DESC, id DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Order{}, id).Error
}

func (r *repository) CreateLine(ctx context.Context, line *models.OrderLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *repository) FindLine(ctx context.Context, orderID, lineID uint) (*models.OrderLine, error) {
	var line models.OrderLine
	if err := r.db.WithContext(ctx).
		Where("id = ? AND order_id = ?", lineID, orderID).
		First(&line).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &line, nil
}

func (r *repository) DeleteLine(ctx context.Context, lineID uint) error {
	return r.db.WithContext(ctx).Delete(&models.OrderLine{}, lineID).Error
}

func (r *repository) DeleteLines(ctx context.Context, orderID uint) error {
	return r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&models.OrderLine{}).Error
}

func (r *repository) SumLineTotals(ctx context.Context, orderID uint) (int64, error) {
	var total *int64
	if err := r.db.WithContext(ctx).
		Model(&models.OrderLine{}).
		Where("order_id = ?", orderID).
		Select("SUM(total)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *repository) CountInvoices(ctx context.Context, orderID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("order_id = ?", orderID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

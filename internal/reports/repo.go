package reports

import (
	"context"
	"time"

	"github.com/wiryasaputra/gerai-backend/pkg/db/models"
	"github.com/wiryasaputra/gerai-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository runs the aggregate queries behind the reporting surface.
type Repository interface {
	SumLedger(ctx context.Context, entryType enums.EntryType, from, to time.Time) (int64, error)
	LedgerByCategory(ctx context.Context, from, to time.Time) ([]CategoryTotal, error)
	OutstandingOrders(ctx context.Context) ([]ReceivableRow, error)
	SalesByProduct(ctx context.Context, from, to time.Time) ([]SalesRow, error)
}

// CategoryTotal is one ledger category's total inside a window.
type CategoryTotal struct {
	Type     enums.EntryType `json:"type"`
	Category string          `json:"category"`
	Total    int64           `json:"total"`
}

// ReceivableRow is one order still carrying a balance.
type ReceivableRow struct {
	OrderID      uint              `json:"order_id"`
	OrderNumber  string            `json:"order_number"`
	CustomerName string            `json:"customer_name"`
	Status       enums.OrderStatus `json:"status"`
	DueDate      *time.Time        `json:"due_date,omitempty"`
	TotalAmount  int64             `json:"total_amount"`
	PaidAmount   int64             `json:"paid_amount"`
}

// SalesRow is one product's committed sales inside a window.
type SalesRow struct {
	ProductID    uint   `json:"product_id"`
	ProductName  string `json:"product_name"`
	QuantitySold int    `json:"quantity_sold"`
	Revenue      int64  `json:"revenue"`
	Cost         int64  `json:"cost"`
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a reporting repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SumLedger(ctx context.Context, entryType enums.EntryType, from, to time.Time) (int64, error) {
	var total *int64
	if err := r.db.WithContext(ctx).
		Model(&models.PaymentRecord{}).
		Where("type = ? AND date >= ? AND date <= ?", entryType, from, to).
		Select("SUM(amount)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *repository) LedgerByCategory(ctx context.Context, from, to time.Time) ([]CategoryTotal, error) {
	var rows []CategoryTotal
	if err := r.db.WithContext(ctx).
		Model(&models.PaymentRecord{}).
		Select("type, category, SUM(amount) AS total").
		Where("date >= ? AND date <= ?", from, to).
		Group("type, category").
		Order("type ASC, total DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) OutstandingOrders(ctx context.Context) ([]ReceivableRow, error) {
	var rows []ReceivableRow
	if err := r.db.WithContext(ctx).
		Table("orders").
		Select(`orders.id AS order_id, orders.order_number, customers.name AS customer_name,
			orders.status, orders.due_date, orders.total_amount, orders.paid_amount`).
		Joins("JOIN customers ON customers.id = orders.customer_id").
		Where("orders.status IN ?", []enums.OrderStatus{enums.OrderStatusUnpaid, enums.OrderStatusPartial}).
		Where("orders.total_amount > orders.paid_amount").
		Order("orders.due_date ASC, orders.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) SalesByProduct(ctx context.Context, from, to time.Time) ([]SalesRow, error) {
	var rows []SalesRow
	if err := r.db.WithContext(ctx).
		Table("order_items").
		Select(`order_items.product_id, products.name AS product_name,
			SUM(order_items.quantity) AS quantity_sold,
			SUM(order_items.total) AS revenue,
			SUM(order_items.quantity * products.cost) AS cost`).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("orders.order_date >= ? AND orders.order_date <= ?", from, to).
		Group("order_items.product_id, products.name").
		Order("revenue DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

package models

import (
	"time"

	"github.com/wiryasaputra/gerai-backend/pkg/enums"
)

// Order is the aggregate root. TotalAmount is always the sum of its lines'
// totals; PaidAmount accumulates ledger postings and never exceeds
// TotalAmount; Status is derived from the two.
type Order struct {
	ID          uint              `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderNumber string            `gorm:"column:order_number;uniqueIndex;not null" json:"order_number"`
	CustomerID  uint              `gorm:"column:customer_id;index;not null" json:"customer_id"`
	OrderDate   time.Time         `gorm:"column:order_date;not null" json:"order_date"`
	DueDate     *time.Time        `gorm:"column:due_date" json:"due_date,omitempty"`
	Status      enums.OrderStatus `gorm:"column:status;not null;default:'pending'" json:"status"`
	TotalAmount int64             `gorm:"column:total_amount;not null;default:0" json:"total_amount"`
	PaidAmount  int64             `gorm:"column:paid_amount;not null;default:0" json:"paid_amount"`
	Notes       *string           `gorm:"column:notes" json:"notes,omitempty"`
	Lines       []OrderLine       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines,omitempty"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName keeps the table compatible with existing data files.
func (Order) TableName() string { return "orders" }

// RemainingAmount is the balance still due on the order.
func (o Order) RemainingAmount() int64 {
	return o.TotalAmount - o.PaidAmount
}

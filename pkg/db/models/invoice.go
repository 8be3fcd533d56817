package models

import (
	"time"

	"github.com/wiryasaputra/gerai-backend/pkg/enums"
)

// Invoice snapshots an order's billing totals at issue time.
type Invoice struct {
	ID            uint                `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	InvoiceNumber string              `gorm:"column:invoice_number;uniqueIndex;not null" json:"invoice_number"`
	OrderID       uint                `gorm:"column:order_id;index;not null" json:"order_id"`
	CustomerID    uint                `gorm:"column:customer_id;not null" json:"customer_id"`
	IssueDate     time.Time           `gorm:"column:issue_date;not null" json:"issue_date"`
	DueDate       *time.Time          `gorm:"column:due_date" json:"due_date,omitempty"`
	Status        enums.InvoiceStatus `gorm:"column:status;not null;default:'unpaid'" json:"status"`
	Subtotal      int64               `gorm:"column:subtotal;not null" json:"subtotal"`
	TaxRate       float64             `gorm:"column:tax_rate;not null;default:0" json:"tax_rate"`
	TaxAmount     int64               `gorm:"column:tax_amount;not null;default:0" json:"tax_amount"`
	TotalAmount   int64               `gorm:"column:total_amount;not null" json:"total_amount"`
	Notes         *string             `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName keeps the table compatible with existing data files.
func (Invoice) TableName() string { return "invoices" }

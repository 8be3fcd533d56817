package models

import (
	"time"

	"github.com/wiryasaputra/gerai-backend/pkg/enums"
)

// PaymentRecord is one immutable posting in the financial ledger. Rows are
// only ever inserted; a reversal is a new negative entry, never an edit.
// Order payments and unrelated income/expense entries share this shape.
type PaymentRecord struct {
	ID            uint                `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Type          enums.EntryType     `gorm:"column:type;not null" json:"type"`
	Category      string              `gorm:"column:category;not null" json:"category"`
	Amount        int64               `gorm:"column:amount;not null" json:"amount"`
	Description   *string             `gorm:"column:description" json:"description,omitempty"`
	Date          time.Time           `gorm:"column:date;not null" json:"date"`
	OrderID       *uint               `gorm:"column:order_id;index" json:"order_id,omitempty"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;not null;default:'cash'" json:"payment_method"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName keeps the original financial_transactions table name.
func (PaymentRecord) TableName() string { return "financial_transactions" }

package models

import "time"

// OrderLine is owned by its order. Price is the unit price snapshotted at
// the time of sale, not re-read from the product later; Total is always
// Quantity * Price.
type OrderLine struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID   uint      `gorm:"column:order_id;index;not null" json:"order_id"`
	ProductID uint      `gorm:"column:product_id;index;not null" json:"product_id"`
	Quantity  int       `gorm:"column:quantity;not null" json:"quantity"`
	Price     int64     `gorm:"column:price;not null" json:"price"`
	Total     int64     `gorm:"column:total;not null" json:"total"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName keeps the original order_items table name.
func (OrderLine) TableName() string { return "order_items" }

package models

import "time"

// Product is the catalog listing. Stock is only ever written through the
// inventory ledger; presentation code reads it but never updates it.
type Product struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Description *string   `gorm:"column:description" json:"description,omitempty"`
	Price       int64     `gorm:"column:price;not null" json:"price"`
	Cost        int64     `gorm:"column:cost;not null;default:0" json:"cost"`
	Stock       int       `gorm:"column:stock;not null;default:0" json:"stock"`
	Unit        string    `gorm:"column:unit;not null;default:'pcs'" json:"unit"`
	Category    *string   `gorm:"column:category" json:"category,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName keeps the table compatible with existing data files.
func (Product) TableName() string { return "products" }

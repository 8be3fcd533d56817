package models

import "time"

// Setting is a key/value row seeded by migrations (company profile, number
// prefixes, tax rate).
type Setting struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Key         string    `gorm:"column:key;uniqueIndex;not null" json:"key"`
	Value       *string   `gorm:"column:value" json:"value,omitempty"`
	Description *string   `gorm:"column:description" json:"description,omitempty"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName keeps the table compatible with existing data files.
func (Setting) TableName() string { return "settings" }

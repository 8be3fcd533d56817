package models

import "time"

// SequenceCounter holds the highest sequence issued per (prefix, scope date).
// It replaces scanning existing rows for the max issued number, which raced
// under concurrent allocation.
type SequenceCounter struct {
	Prefix    string    `gorm:"column:prefix;primaryKey" json:"prefix"`
	ScopeDate string    `gorm:"column:scope_date;primaryKey" json:"scope_date"`
	Seq       int       `gorm:"column:seq;not null" json:"seq"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName names the counter table.
func (SequenceCounter) TableName() string { return "sequence_counters" }

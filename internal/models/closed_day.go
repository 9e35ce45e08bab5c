package models

import "time"

// ClosedDay marks a salon-local date (YYYY-MM-DD) with no availability.
type ClosedDay struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Date   string `gorm:"size:10;uniqueIndex;not null" json:"date"`
	Reason string `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}

package models

import (
	"time"

	"github.com/lib/pq"
)

type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string         `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string         `gorm:"size:500" json:"description"`
	Highlights  pq.StringArray `gorm:"type:text[]" json:"highlights"`
	DurationMin int            `gorm:"not null" json:"duration_min"`
	Price       float64        `gorm:"type:decimal(10,2);not null" json:"price"`
	Active      bool           `gorm:"default:true" json:"active"`
	ImageURL    string         `gorm:"size:500" json:"image_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package models

import "time"

type Payment struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	BookingID uint    `gorm:"index;not null" json:"booking_id"`
	Amount    float64 `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method    string  `gorm:"size:20;not null" json:"method"`

	CreatedAt time.Time `json:"created_at"`
}

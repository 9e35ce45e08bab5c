package models

import "time"

type BookingStatusEvent struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	BookingID  uint   `gorm:"index;not null" json:"booking_id"`
	FromStatus string `gorm:"size:20" json:"from_status"`
	ToStatus   string `gorm:"size:20;not null" json:"to_status"`
	Actor      string `gorm:"size:160" json:"actor"`

	CreatedAt time.Time `json:"created_at"`
}

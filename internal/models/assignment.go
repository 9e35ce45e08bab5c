package models

import "time"

type Assignment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BookingID uint   `gorm:"index;not null" json:"booking_id"`
	Email     string `gorm:"size:160;not null" json:"email"`
	Status    string `gorm:"size:20;index;default:'pending'" json:"status"`

	Token     string    `gorm:"size:64;uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`

	RespondedAt *time.Time `json:"responded_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

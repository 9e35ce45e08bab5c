package models

import "time"

type Commission struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	BookingID     uint    `gorm:"index;not null" json:"booking_id"`
	Percentage    float64 `gorm:"type:decimal(5,2);not null" json:"percentage"`
	Amount        float64 `gorm:"type:decimal(10,2);not null" json:"amount"`
	AssigneeEmail *string `gorm:"size:160;index" json:"assignee_email"`

	CreatedAt time.Time `json:"created_at"`
}

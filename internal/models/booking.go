package models

import (
	"time"

	"github.com/lib/pq"
)

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientName  string `gorm:"size:120;not null" json:"client_name"`
	ClientEmail string `gorm:"size:160" json:"client_email"`
	ClientPhone string `gorm:"size:30" json:"client_phone"`

	ServiceID uint    `gorm:"index;not null" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service"`

	StartTime time.Time `gorm:"index;not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Status         string   `gorm:"size:20;index;default:'scheduled'" json:"status"`
	AmountOverride *float64 `gorm:"type:decimal(10,2)" json:"amount_override"`

	AssignedEmail  *string        `gorm:"size:160;index" json:"assigned_email"`
	AssignedAt     *time.Time     `json:"assigned_at"`
	InvitedEmails  pq.StringArray `gorm:"type:text[]" json:"invited_emails"`
	ConfirmedEmail *string        `gorm:"size:160" json:"confirmed_email"`

	CompletedBy *string    `gorm:"size:160" json:"completed_by"`
	CompletedAt *time.Time `json:"completed_at"`
	CanceledAt  *time.Time `json:"canceled_at"`

	Notes  string `gorm:"size:500" json:"notes"`
	Source string `gorm:"size:20;default:'dashboard'" json:"source"`

	Assignments []Assignment `gorm:"constraint:OnDelete:CASCADE;" json:"assignments,omitempty"`
	Payments    []Payment    `gorm:"constraint:OnDelete:CASCADE;" json:"payments,omitempty"`
	Commissions []Commission `gorm:"constraint:OnDelete:CASCADE;" json:"commissions,omitempty"`

	StatusEvents []BookingStatusEvent `gorm:"constraint:OnDelete:CASCADE;" json:"status_events,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EffectivePrice is the override when present, otherwise the service price.
func (b *Booking) EffectivePrice() float64 {
	if b.AmountOverride != nil {
		return *b.AmountOverride
	}
	return b.Service.Price
}

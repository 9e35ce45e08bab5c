package booking

import (
	"math"
	"strings"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/commission"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type Source string

const (
	SourceDashboard Source = "dashboard"
	SourceLanding   Source = "landing"
	SourceInstagram Source = "instagram"
)

func ParseSource(raw string) (Source, error) {
	switch s := Source(strings.ToLower(strings.TrimSpace(raw))); s {
	case "":
		return SourceDashboard, nil
	case SourceDashboard, SourceLanding, SourceInstagram:
		return s, nil
	}
	return "", httperr.ErrValidation("invalid_source")
}

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
)

func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	switch m := PaymentMethod(strings.ToLower(strings.TrimSpace(raw))); m {
	case PaymentCash, PaymentTransfer:
		return m, nil
	}
	return "", httperr.ErrValidation("invalid_payment_method")
}

// ===============================
// Domain Actions
// ===============================

// New builds a scheduled booking; EndTime follows the service duration.
func New(svc *models.Service, clientName string, start time.Time) (*models.Booking, error) {
	name := strings.TrimSpace(clientName)
	if name == "" {
		return nil, httperr.ErrValidation("client_name_required")
	}
	if svc == nil || !svc.Active {
		return nil, httperr.ErrValidation("service_unavailable")
	}
	if start.IsZero() {
		return nil, httperr.ErrValidation("invalid_start_time")
	}

	return &models.Booking{
		ClientName: name,
		ServiceID:  svc.ID,
		Service:    *svc,
		StartTime:  start,
		EndTime:    start.Add(time.Duration(svc.DurationMin) * time.Minute),
		Status:     string(InitialStatus()),
		Source:     string(SourceDashboard),
	}, nil
}

func Confirm(b *models.Booking) error {
	if err := CanSetStatus(Status(b.Status), StatusConfirmed); err != nil {
		return err
	}
	b.Status = string(StatusConfirmed)
	return nil
}

// Cancel releases the collaborator; pending invitations are declined by the caller.
func Cancel(b *models.Booking, now time.Time) error {
	if err := CanCancel(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusCanceled)
	b.CanceledAt = &now
	b.AssignedEmail = nil
	b.AssignedAt = nil
	return nil
}

func Complete(b *models.Booking, actor string, now time.Time) error {
	if err := CanComplete(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusDone)
	b.CompletedAt = &now
	if actor != "" {
		b.CompletedBy = &actor
	}
	return nil
}

// SetPriceOverride stores amount or clears it when nil.
func SetPriceOverride(b *models.Booking, amount *float64) error {
	if err := CanEditPrice(Status(b.Status)); err != nil {
		return err
	}
	if amount != nil {
		v, err := NormalizeAmount(*amount)
		if err != nil {
			return err
		}
		amount = &v
	}

	b.AmountOverride = amount
	return nil
}

// Assign records an accepted invitation and confirms the booking.
func Assign(b *models.Booking, email string, now time.Time) error {
	if Status(b.Status) != StatusScheduled {
		return httperr.ErrInvalidState("booking_not_assignable")
	}

	b.Status = string(StatusConfirmed)
	b.AssignedEmail = &email
	b.AssignedAt = &now
	b.ConfirmedEmail = &email
	return nil
}

func AppendInvited(b *models.Booking, email string) {
	b.InvitedEmails = append(b.InvitedEmails, email)
}

// NormalizeAmount rounds v to cents. The rounded value must stay positive.
func NormalizeAmount(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, httperr.ErrValidation("invalid_amount")
	}
	v = commission.Round2(v)
	if v <= 0 {
		return 0, httperr.ErrValidation("invalid_amount")
	}
	return v, nil
}

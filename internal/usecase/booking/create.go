package booking

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/events"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/tracing"
)

var validate = validator.New()

type CreateBookingInput struct {
	ClientName  string
	ClientEmail string
	ClientPhone string
	ServiceID   uint
	StartTime   string
	Notes       string
	Source      string
	Actor       string

	// RejectPast refuses start times that already passed (public channels).
	RejectPast bool
}

type CreateBooking struct {
	Deps
}

func NewCreateBooking(d Deps) *CreateBooking {
	return &CreateBooking{Deps: d}
}

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (b *models.Booking, err error) {

	ctx, span := tracing.Start(ctx, "booking.Create")
	defer func() { tracing.End(span, err) }()

	source, err := domain.ParseSource(in.Source)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(in.ClientEmail))
	if email != "" {
		if err := validate.Var(email, "email"); err != nil {
			return nil, httperr.ErrValidation("invalid_email")
		}
	}

	start, err := uc.Zone.ParseLocal(strings.TrimSpace(in.StartTime))
	if err != nil {
		return nil, httperr.ErrValidation("invalid_start_time")
	}
	if in.RejectPast && !start.After(uc.now()) {
		return nil, httperr.ErrValidation("start_time_in_past")
	}

	if in.ServiceID == 0 {
		return nil, httperr.ErrValidation("service_required")
	}
	svc, err := uc.Repo.GetService(ctx, in.ServiceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrValidation("service_not_found")
		}
		return nil, err
	}

	b, err = domain.New(svc, in.ClientName, start)
	if err != nil {
		return nil, err
	}
	b.ClientEmail = email
	b.ClientPhone = strings.TrimSpace(in.ClientPhone)
	b.Notes = strings.TrimSpace(in.Notes)
	b.Source = string(source)

	err = uc.Repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.CreateBooking(ctx, b); err != nil {
			return err
		}
		return domain.RecordTransition(ctx, tx, b, "", in.Actor)
	})
	if err != nil {
		return nil, err
	}

	uc.log().Info("booking created",
		zap.Uint("booking_id", b.ID),
		zap.String("service", svc.Name),
		zap.String("source", b.Source),
	)
	uc.Metrics.ObserveTransition("", b.Status)
	uc.audit(in.Actor, "booking_created", b, map[string]any{"source": b.Source})
	uc.publish(ctx, events.BookingCreated, b, in.Actor)

	return b, nil
}

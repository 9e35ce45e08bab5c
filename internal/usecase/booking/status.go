package booking

import (
	"context"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/events"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/tracing"
)

// SetBookingStatus is the staff status endpoint. Canceling goes through the
// same path as CancelBooking; done is only reachable by completion.
type SetBookingStatus struct {
	Deps
	cancel *CancelBooking
}

func NewSetBookingStatus(d Deps) *SetBookingStatus {
	return &SetBookingStatus{Deps: d, cancel: NewCancelBooking(d)}
}

func (uc *SetBookingStatus) Execute(
	ctx context.Context,
	bookingID uint,
	rawTarget string,
	actor string,
) (b *models.Booking, err error) {

	target, err := domain.ParseStatus(rawTarget)
	if err != nil {
		return nil, err
	}
	if target == domain.StatusCanceled {
		return uc.cancel.Execute(ctx, bookingID, actor)
	}

	ctx, span := tracing.Start(ctx, "booking.SetStatus", tracing.BookingID(bookingID))
	defer func() { tracing.End(span, err) }()

	var from domain.Status
	err = uc.Repo.Transaction(ctx, func(tx domain.Repository) error {
		cur, err := tx.GetBookingForUpdate(ctx, bookingID)
		if err != nil {
			return notFound(err, "booking_not_found")
		}
		from = domain.Status(cur.Status)

		if err := domain.CanSetStatus(from, target); err != nil {
			return err
		}
		cur.Status = string(target)

		if err := tx.UpdateBooking(ctx, cur); err != nil {
			return err
		}
		b = cur
		return domain.RecordTransition(ctx, tx, cur, from, actor)
	})
	if err != nil {
		return nil, err
	}

	uc.log().Info("booking status changed",
		zap.Uint("booking_id", b.ID),
		zap.String("from", string(from)),
		zap.String("to", b.Status),
	)
	uc.Metrics.ObserveTransition(string(from), b.Status)
	uc.audit(actor, "booking_status_changed", b, map[string]string{"from": string(from), "to": b.Status})
	uc.publish(ctx, events.BookingConfirmed, b, actor)

	return b, nil
}

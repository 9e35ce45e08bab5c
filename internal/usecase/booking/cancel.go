package booking

import (
	"context"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/events"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/tracing"
)

type CancelBooking struct {
	Deps
}

func NewCancelBooking(d Deps) *CancelBooking {
	return &CancelBooking{Deps: d}
}

// Execute cancels the booking, releases the collaborator and declines any
// pending invitation in one transaction.
func (uc *CancelBooking) Execute(
	ctx context.Context,
	bookingID uint,
	actor string,
) (b *models.Booking, err error) {

	ctx, span := tracing.Start(ctx, "booking.Cancel", tracing.BookingID(bookingID))
	defer func() { tracing.End(span, err) }()

	now := uc.now()
	var (
		from     domain.Status
		declined int64
	)

	err = uc.Repo.Transaction(ctx, func(tx domain.Repository) error {
		cur, err := tx.GetBookingForUpdate(ctx, bookingID)
		if err != nil {
			return notFound(err, "booking_not_found")
		}
		from = domain.Status(cur.Status)

		if err := domain.Cancel(cur, now); err != nil {
			return err
		}
		if err := tx.UpdateBooking(ctx, cur); err != nil {
			return err
		}
		if declined, err = tx.DeclinePending(ctx, cur.ID, now); err != nil {
			return err
		}
		b = cur
		return domain.RecordTransition(ctx, tx, cur, from, actor)
	})
	if err != nil {
		return nil, err
	}

	uc.log().Info("booking canceled",
		zap.Uint("booking_id", b.ID),
		zap.String("from", string(from)),
		zap.Int64("declined_invitations", declined),
	)
	uc.Metrics.ObserveTransition(string(from), b.Status)
	uc.audit(actor, "booking_canceled", b, nil)
	uc.publish(ctx, events.BookingCanceled, b, actor)

	return b, nil
}

package booking

import (
	"context"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/events"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type SetPriceOverride struct {
	Deps
}

func NewSetPriceOverride(d Deps) *SetPriceOverride {
	return &SetPriceOverride{Deps: d}
}

// Execute sets the override, or clears it back to the list price when amount is nil.
func (uc *SetPriceOverride) Execute(
	ctx context.Context,
	bookingID uint,
	amount *float64,
	actor string,
) (*models.Booking, error) {

	var b *models.Booking
	err := uc.Repo.Transaction(ctx, func(tx domain.Repository) error {
		cur, err := tx.GetBookingForUpdate(ctx, bookingID)
		if err != nil {
			return notFound(err, "booking_not_found")
		}
		if err := domain.SetPriceOverride(cur, amount); err != nil {
			return err
		}
		b = cur
		return tx.UpdateBooking(ctx, cur)
	})
	if err != nil {
		return nil, err
	}

	uc.audit(actor, "booking_price_changed", b, map[string]any{"amount_override": b.AmountOverride})
	uc.publish(ctx, events.BookingRepriced, b, actor)

	return b, nil
}

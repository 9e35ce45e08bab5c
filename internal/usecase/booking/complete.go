package booking

import (
	"context"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/commission"
	"github.com/BruksfildServices01/salon-scheduler/internal/events"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/tracing"
)

type CompleteBookingInput struct {
	BookingID uint
	// Amount defaults to the booking's effective price.
	Amount *float64
	Method string
	// Percentage defaults to the configured commission percentage.
	Percentage *float64
	Actor      string
}

type CompleteBookingResult struct {
	Booking    *models.Booking    `json:"booking"`
	Payment    *models.Payment    `json:"payment"`
	Commission *models.Commission `json:"commission"`
}

type CompleteBooking struct {
	Deps
	defaultPercentage float64
}

func NewCompleteBooking(d Deps, defaultPercentage float64) *CompleteBooking {
	return &CompleteBooking{Deps: d, defaultPercentage: defaultPercentage}
}

// Execute settles the booking: payment, commission and the done transition
// commit together or not at all.
func (uc *CompleteBooking) Execute(
	ctx context.Context,
	in CompleteBookingInput,
) (res *CompleteBookingResult, err error) {

	ctx, span := tracing.Start(ctx, "booking.Complete", tracing.BookingID(in.BookingID))
	defer func() { tracing.End(span, err) }()

	method, err := domain.ParsePaymentMethod(in.Method)
	if err != nil {
		return nil, err
	}

	pct := uc.defaultPercentage
	if in.Percentage != nil {
		pct = *in.Percentage
	}
	// Stored as decimal(5,2); the amount is derived from the stored value.
	pct = commission.Round2(pct)
	if err := commission.ValidatePercentage(pct); err != nil {
		return nil, err
	}

	now := uc.now()
	var from domain.Status

	err = uc.Repo.Transaction(ctx, func(tx domain.Repository) error {
		b, err := tx.GetBookingForUpdate(ctx, in.BookingID)
		if err != nil {
			return notFound(err, "booking_not_found")
		}
		from = domain.Status(b.Status)

		if err := domain.CanComplete(from); err != nil {
			return err
		}

		amount := b.EffectivePrice()
		if in.Amount != nil {
			amount = *in.Amount
		}
		amount, err = domain.NormalizeAmount(amount)
		if err != nil {
			return err
		}

		payment := &models.Payment{
			BookingID: b.ID,
			Amount:    amount,
			Method:    string(method),
		}
		if err := tx.CreatePayment(ctx, payment); err != nil {
			return err
		}

		comm := &models.Commission{
			BookingID:     b.ID,
			Percentage:    pct,
			Amount:        commission.Compute(amount, pct),
			AssigneeEmail: b.AssignedEmail,
		}
		if err := tx.CreateCommission(ctx, comm); err != nil {
			return err
		}

		if err := domain.Complete(b, in.Actor, now); err != nil {
			return err
		}
		if err := tx.UpdateBooking(ctx, b); err != nil {
			return err
		}
		if err := domain.RecordTransition(ctx, tx, b, from, in.Actor); err != nil {
			return err
		}

		res = &CompleteBookingResult{Booking: b, Payment: payment, Commission: comm}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log().Info("booking completed",
		zap.Uint("booking_id", res.Booking.ID),
		zap.Float64("amount", res.Payment.Amount),
		zap.String("method", res.Payment.Method),
		zap.Float64("commission", res.Commission.Amount),
	)
	uc.Metrics.ObserveTransition(string(from), res.Booking.Status)
	uc.Metrics.ObserveSettlement(res.Payment.Method, res.Payment.Amount)
	uc.audit(in.Actor, "booking_completed", res.Booking, map[string]any{
		"amount":     res.Payment.Amount,
		"method":     res.Payment.Method,
		"percentage": res.Commission.Percentage,
		"commission": res.Commission.Amount,
	})
	uc.publish(ctx, events.BookingCompleted, res.Booking, in.Actor)

	return res, nil
}

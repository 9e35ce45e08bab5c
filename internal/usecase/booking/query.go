package booking

import (
	"context"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/events"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// ===============================
// Read model
// ===============================

type ListBookings struct {
	Deps
}

func NewListBookings(d Deps) *ListBookings {
	return &ListBookings{Deps: d}
}

// Unassigned are scheduled bookings nobody accepted yet.
func (uc *ListBookings) Unassigned(ctx context.Context) ([]models.Booking, error) {
	return uc.Repo.ListBookings(ctx, domain.ListFilter{
		Statuses:   []domain.Status{domain.StatusScheduled},
		Unassigned: true,
	})
}

// Upcoming are open bookings ordered by start time.
func (uc *ListBookings) Upcoming(ctx context.Context) ([]models.Booking, error) {
	return uc.Repo.ListBookings(ctx, domain.ListFilter{
		Statuses: []domain.Status{domain.StatusScheduled, domain.StatusConfirmed},
	})
}

// ByDate lists every booking starting on the salon-local day.
func (uc *ListBookings) ByDate(ctx context.Context, dateKey string) ([]models.Booking, error) {
	start, end, err := uc.Zone.DayBounds(dateKey)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date")
	}
	return uc.Repo.ListBookings(ctx, domain.ListFilter{From: &start, To: &end})
}

func (uc *ListBookings) Get(ctx context.Context, id uint) (*models.Booking, error) {
	b, err := uc.Repo.GetBookingDetail(ctx, id)
	if err != nil {
		return nil, notFound(err, "booking_not_found")
	}
	return b, nil
}

type DeleteBooking struct {
	Deps
}

func NewDeleteBooking(d Deps) *DeleteBooking {
	return &DeleteBooking{Deps: d}
}

// Execute removes a booking that was never settled, cascading its history.
func (uc *DeleteBooking) Execute(ctx context.Context, id uint, actor string) error {
	var deleted *models.Booking
	err := uc.Repo.Transaction(ctx, func(tx domain.Repository) error {
		b, err := tx.GetBookingForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "booking_not_found")
		}
		if err := domain.CanDelete(domain.Status(b.Status)); err != nil {
			return err
		}
		deleted = b
		return tx.DeleteBooking(ctx, id)
	})
	if err != nil {
		return err
	}

	uc.audit(actor, "booking_deleted", deleted, map[string]string{"status": deleted.Status})
	uc.publish(ctx, events.BookingDeleted, deleted, actor)
	return nil
}

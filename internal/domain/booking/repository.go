package booking

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// ErrNotFound is returned by repositories for missing rows.
var ErrNotFound = errors.New("record not found")

type ListFilter struct {
	Statuses   []Status
	Unassigned bool
	From       *time.Time
	To         *time.Time
	Limit      int
}

type Repository interface {
	// Transaction runs fn against a repository bound to a single database
	// transaction. Returning an error rolls everything back.
	Transaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error

	// -------- Service --------
	GetService(
		ctx context.Context,
		id uint,
	) (*models.Service, error)

	// -------- Booking --------
	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	GetBooking(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	// GetBookingForUpdate locks the row until the surrounding transaction ends.
	GetBookingForUpdate(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	GetBookingDetail(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	DeleteBooking(
		ctx context.Context,
		id uint,
	) error

	ListBookings(
		ctx context.Context,
		filter ListFilter,
	) ([]models.Booking, error)

	HasAssigneeConflict(
		ctx context.Context,
		email string,
		start time.Time,
		end time.Time,
		excludeID uint,
	) (bool, error)

	AppendStatusEvent(
		ctx context.Context,
		ev *models.BookingStatusEvent,
	) error

	// -------- Completion --------
	CreatePayment(
		ctx context.Context,
		p *models.Payment,
	) error

	CreateCommission(
		ctx context.Context,
		c *models.Commission,
	) error

	ListDoneBookings(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) ([]models.Booking, error)

	// -------- Assignment --------
	CreateAssignment(
		ctx context.Context,
		a *models.Assignment,
	) error

	GetAssignment(
		ctx context.Context,
		id uint,
	) (*models.Assignment, error)

	GetAssignmentByToken(
		ctx context.Context,
		token string,
	) (*models.Assignment, error)

	ListAssignments(
		ctx context.Context,
		bookingID uint,
	) ([]models.Assignment, error)

	// DeclinePending supersedes every pending assignment of a booking.
	DeclinePending(
		ctx context.Context,
		bookingID uint,
		now time.Time,
	) (int64, error)

	// TransitionAssignment moves an assignment out of `from` only if it is
	// still in `from` at write time. It reports whether the row changed.
	TransitionAssignment(
		ctx context.Context,
		id uint,
		from string,
		to string,
		now time.Time,
	) (bool, error)

	ListExpiredPending(
		ctx context.Context,
		now time.Time,
		limit int,
	) ([]models.Assignment, error)
}

// RecordTransition appends b's status change to its history. Call it inside
// the transaction that changed the status.
func RecordTransition(
	ctx context.Context,
	repo Repository,
	b *models.Booking,
	from Status,
	actor string,
) error {
	return repo.AppendStatusEvent(ctx, &models.BookingStatusEvent{
		BookingID:  b.ID,
		FromStatus: string(from),
		ToStatus:   b.Status,
		Actor:      actor,
	})
}

package assignment

import (
	"context"

	"go.uber.org/zap"

	domainassignment "github.com/BruksfildServices01/salon-scheduler/internal/domain/assignment"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/events"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/tracing"
)

const (
	WarningEmailNotConfigured = "email_not_configured"
	WarningEmailFailed        = "email_dispatch_failed"
)

type CreateInvitationResult struct {
	Assignment *models.Assignment `json:"assignment"`
	Warnings   []string           `json:"warnings"`
}

type CreateInvitation struct {
	Deps
}

func NewCreateInvitation(d Deps) *CreateInvitation {
	return &CreateInvitation{Deps: d}
}

// Execute supersedes any pending invitation of the booking and issues a new
// one. Email delivery happens after commit; its failure is a warning.
func (uc *CreateInvitation) Execute(
	ctx context.Context,
	bookingID uint,
	rawEmail string,
	actor string,
) (res *CreateInvitationResult, err error) {

	ctx, span := tracing.Start(ctx, "assignment.CreateInvitation", tracing.BookingID(bookingID))
	defer func() { tracing.End(span, err) }()

	email, err := domainassignment.NormalizeEmail(rawEmail)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	var (
		inv        *models.Assignment
		b          *models.Booking
		superseded int64
	)

	err = uc.Repo.Transaction(ctx, func(tx domain.Repository) error {
		cur, err := tx.GetBookingForUpdate(ctx, bookingID)
		if err != nil {
			return notFound(err, "booking_not_found")
		}
		if err := domain.CanInvite(domain.Status(cur.Status)); err != nil {
			return err
		}

		if superseded, err = tx.DeclinePending(ctx, cur.ID, now); err != nil {
			return err
		}

		a, err := domainassignment.New(cur.ID, email, now)
		if err != nil {
			return err
		}
		if err := tx.CreateAssignment(ctx, a); err != nil {
			return err
		}

		domain.AppendInvited(cur, email)
		if err := tx.UpdateBooking(ctx, cur); err != nil {
			return err
		}

		inv, b = a, cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log().Info("invitation created",
		zap.Uint("booking_id", b.ID),
		zap.Uint("assignment_id", inv.ID),
		zap.String("email", inv.Email),
		zap.Int64("superseded", superseded),
	)
	uc.Metrics.ObserveInvitation("created")
	uc.audit(actor, "invitation_created", inv)
	uc.publish(ctx, events.InvitationCreated, inv, b.Status, actor)

	res = &CreateInvitationResult{Assignment: inv, Warnings: []string{}}
	if w := uc.dispatch(ctx, inv, b); w != "" {
		res.Warnings = append(res.Warnings, w)
	}
	return res, nil
}

func (uc *CreateInvitation) dispatch(ctx context.Context, a *models.Assignment, b *models.Booking) string {
	if uc.Mailer == nil {
		uc.Metrics.ObserveDispatchFailure("assignment")
		return WarningEmailNotConfigured
	}

	err := uc.Mailer.SendAssignmentEmail(ctx, a.Email, uc.summary(b), uc.acceptURL(a.Token), a.ExpiresAt)
	if err != nil {
		uc.log().Warn("assignment email failed",
			zap.Uint("assignment_id", a.ID),
			zap.String("email", a.Email),
			zap.Error(err),
		)
		uc.Metrics.ObserveDispatchFailure("assignment")
		return WarningEmailFailed
	}
	return ""
}

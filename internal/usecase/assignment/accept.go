package assignment

import (
	"context"

	"go.uber.org/zap"

	domainassignment "github.com/BruksfildServices01/salon-scheduler/internal/domain/assignment"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/events"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/tracing"
)

type AcceptInvitation struct {
	Deps
}

func NewAcceptInvitation(d Deps) *AcceptInvitation {
	return &AcceptInvitation{Deps: d}
}

// Execute redeems token: the invitation becomes accepted and the booking is
// assigned and confirmed in the same transaction. A token works once.
func (uc *AcceptInvitation) Execute(
	ctx context.Context,
	token string,
) (b *models.Booking, err error) {

	ctx, span := tracing.Start(ctx, "assignment.Accept")
	defer func() { tracing.End(span, err) }()

	if token == "" {
		return nil, httperr.ErrNotFound("invitation_not_found")
	}

	now := uc.now()
	var inv *models.Assignment

	err = uc.Repo.Transaction(ctx, func(tx domain.Repository) error {
		a, err := tx.GetAssignmentByToken(ctx, token)
		if err != nil {
			return notFound(err, "invitation_not_found")
		}
		if err := domainassignment.CanAccept(a, now); err != nil {
			return err
		}

		cur, err := tx.GetBookingForUpdate(ctx, a.BookingID)
		if err != nil {
			return notFound(err, "booking_not_found")
		}
		if domain.Status(cur.Status) != domain.StatusScheduled {
			return httperr.ErrInvalidState("booking_not_assignable")
		}

		conflict, err := tx.HasAssigneeConflict(ctx, a.Email, cur.StartTime, cur.EndTime, cur.ID)
		if err != nil {
			return err
		}
		if conflict {
			return httperr.ErrInvalidState("assignee_time_conflict")
		}

		// The sweep may have expired it since we read it.
		changed, err := tx.TransitionAssignment(ctx, a.ID,
			string(domainassignment.StatusPending), string(domainassignment.StatusAccepted), now)
		if err != nil {
			return err
		}
		if !changed {
			return httperr.ErrExpired("invitation_expired")
		}

		if err := domain.Assign(cur, a.Email, now); err != nil {
			return err
		}
		if err := tx.UpdateBooking(ctx, cur); err != nil {
			return err
		}
		if err := domain.RecordTransition(ctx, tx, cur, domain.StatusScheduled, a.Email); err != nil {
			return err
		}

		a.Status = string(domainassignment.StatusAccepted)
		a.RespondedAt = &now
		inv, b = a, cur
		return nil
	})
	if err != nil {
		if httperr.IsKind(err, httperr.KindExpired) {
			uc.Metrics.ObserveInvitation("rejected_expired")
		}
		return nil, err
	}

	uc.log().Info("invitation accepted",
		zap.Uint("booking_id", b.ID),
		zap.Uint("assignment_id", inv.ID),
		zap.String("email", inv.Email),
	)
	uc.Metrics.ObserveInvitation("accepted")
	uc.Metrics.ObserveTransition(string(domain.StatusScheduled), b.Status)
	uc.audit(inv.Email, "invitation_accepted", inv)
	uc.publish(ctx, events.InvitationAccepted, inv, b.Status, inv.Email)

	if uc.Mailer != nil {
		if err := uc.Mailer.SendAcceptanceEmail(ctx, inv.Email, uc.summary(b)); err != nil {
			uc.log().Warn("acceptance email failed", zap.Uint("assignment_id", inv.ID), zap.Error(err))
			uc.Metrics.ObserveDispatchFailure("acceptance")
		}
	}

	return b, nil
}

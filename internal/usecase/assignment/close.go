package assignment

import (
	"context"

	"go.uber.org/zap"

	domainassignment "github.com/BruksfildServices01/salon-scheduler/internal/domain/assignment"
	domainbooking "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/events"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// CloseInvitation declines or expires a pending invitation. Booking fields
// are never touched.
type CloseInvitation struct {
	Deps
}

func NewCloseInvitation(d Deps) *CloseInvitation {
	return &CloseInvitation{Deps: d}
}

func (uc *CloseInvitation) Decline(ctx context.Context, id uint, actor string) (*models.Assignment, error) {
	a, err := uc.Repo.GetAssignment(ctx, id)
	if err != nil {
		return nil, notFound(err, "invitation_not_found")
	}
	return uc.close(ctx, a, domainassignment.StatusDeclined, actor)
}

func (uc *CloseInvitation) Expire(ctx context.Context, id uint, actor string) (*models.Assignment, error) {
	a, err := uc.Repo.GetAssignment(ctx, id)
	if err != nil {
		return nil, notFound(err, "invitation_not_found")
	}
	return uc.close(ctx, a, domainassignment.StatusExpired, actor)
}

// DeclineByToken is the collaborator's "no thanks" link.
func (uc *CloseInvitation) DeclineByToken(ctx context.Context, token string) (*models.Assignment, error) {
	if token == "" {
		return nil, httperr.ErrNotFound("invitation_not_found")
	}
	a, err := uc.Repo.GetAssignmentByToken(ctx, token)
	if err != nil {
		return nil, notFound(err, "invitation_not_found")
	}
	if domainassignment.Status(a.Status) == domainassignment.StatusPending && domainassignment.IsExpired(a, uc.now()) {
		return nil, httperr.ErrExpired("invitation_expired")
	}
	return uc.close(ctx, a, domainassignment.StatusDeclined, a.Email)
}

func (uc *CloseInvitation) close(
	ctx context.Context,
	a *models.Assignment,
	to domainassignment.Status,
	actor string,
) (*models.Assignment, error) {

	if err := domainassignment.CanClose(a); err != nil {
		return nil, err
	}

	now := uc.now()
	changed, err := uc.Repo.TransitionAssignment(ctx, a.ID, string(domainassignment.StatusPending), string(to), now)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, httperr.ErrInvalidState("invitation_closed")
	}

	a.Status = string(to)
	a.RespondedAt = &now

	uc.log().Info("invitation closed",
		zap.Uint("assignment_id", a.ID),
		zap.String("status", a.Status),
	)
	uc.Metrics.ObserveInvitation(a.Status)
	uc.audit(actor, "invitation_"+a.Status, a)

	key := events.InvitationDeclined
	if to == domainassignment.StatusExpired {
		key = events.InvitationExpired
	}
	uc.publish(ctx, key, a, "", actor)

	return a, nil
}

type ListInvitations struct {
	Deps
}

func NewListInvitations(d Deps) *ListInvitations {
	return &ListInvitations{Deps: d}
}

// Execute returns the invitation history of a booking, oldest first.
func (uc *ListInvitations) Execute(ctx context.Context, bookingID uint) ([]models.Assignment, error) {
	if _, err := uc.Repo.GetBooking(ctx, bookingID); err != nil {
		return nil, notFound(err, "booking_not_found")
	}
	return uc.Repo.ListAssignments(ctx, bookingID)
}

// PreviewInvitation loads what an invitation link offers without redeeming it.
type PreviewInvitation struct {
	Deps
}

func NewPreviewInvitation(d Deps) *PreviewInvitation {
	return &PreviewInvitation{Deps: d}
}

// Execute fails like an accept would on a closed or lapsed invitation and on
// a booking that is no longer open for assignment.
func (uc *PreviewInvitation) Execute(ctx context.Context, token string) (*models.Booking, error) {
	if token == "" {
		return nil, httperr.ErrNotFound("invitation_not_found")
	}
	a, err := uc.Repo.GetAssignmentByToken(ctx, token)
	if err != nil {
		return nil, notFound(err, "invitation_not_found")
	}
	if err := domainassignment.CanAccept(a, uc.now()); err != nil {
		return nil, err
	}

	b, err := uc.Repo.GetBooking(ctx, a.BookingID)
	if err != nil {
		return nil, notFound(err, "booking_not_found")
	}
	if domainbooking.Status(b.Status) != domainbooking.StatusScheduled {
		return nil, httperr.ErrInvalidState("booking_not_assignable")
	}
	return b, nil
}

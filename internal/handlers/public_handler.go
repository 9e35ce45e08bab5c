package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/assignment"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/slot"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type ServiceLister interface {
	ListActiveServices(ctx context.Context) ([]models.Service, error)
}

// PublicHandler serves the landing site, the Instagram bot and the
// collaborator email links. No staff session.
type PublicHandler struct {
	services ServiceLister
	slots    *slot.GetSlots
	create   *booking.CreateBooking
	preview  *assignment.PreviewInvitation
	accept   *assignment.AcceptInvitation
	close    *assignment.CloseInvitation
	zone     timezone.Zone
}

func NewPublicHandler(
	services ServiceLister,
	slots *slot.GetSlots,
	bookingDeps booking.Deps,
	assignmentDeps assignment.Deps,
) *PublicHandler {
	return &PublicHandler{
		services: services,
		slots:    slots,
		create:   booking.NewCreateBooking(bookingDeps),
		preview:  assignment.NewPreviewInvitation(assignmentDeps),
		accept:   assignment.NewAcceptInvitation(assignmentDeps),
		close:    assignment.NewCloseInvitation(assignmentDeps),
		zone:     bookingDeps.Zone,
	}
}

////////////////////////////////////////////////////////
// CATALOG + AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	rows, err := h.services.ListActiveServices(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "failed_to_list_services", "Could not list services.")
		return
	}
	httpresp.List(c, rows)
}

func (h *PublicHandler) Slots(c *gin.Context) {
	rows, err := h.slots.Execute(c.Request.Context(), c.Query("date"))
	if err != nil {
		httperr.FromError(c, err, internalError)
		return
	}
	httpresp.List(c, rows)
}

////////////////////////////////////////////////////////
// BOOKINGS (landing / instagram)
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	// Dashboard bookings only come through the staff API.
	if src, err := domain.ParseSource(req.Source); err == nil && src == domain.SourceDashboard {
		req.Source = string(domain.SourceLanding)
	}

	b, err := h.create.Execute(c.Request.Context(), booking.CreateBookingInput{
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		ClientPhone: req.ClientPhone,
		ServiceID:   req.ServiceID,
		StartTime:   req.StartTime,
		Notes:       req.Notes,
		Source:      req.Source,
		RejectPast:  true,
	})
	if err != nil {
		httperr.FromError(c, err, internalError)
		return
	}
	httpresp.Created(c, b)
}

////////////////////////////////////////////////////////
// INVITATION LINKS
////////////////////////////////////////////////////////

// AcceptPage is the GET target of the emailed link. It only shows the offer:
// link scanners prefetch URLs, so redeeming happens on the form POST.
func (h *PublicHandler) AcceptPage(c *gin.Context) {
	token := c.Param("token")
	b, err := h.preview.Execute(c.Request.Context(), token)
	if err != nil {
		h.renderInvitationError(c, err)
		return
	}

	c.HTML(http.StatusOK, invitationPage, gin.H{
		"Title":   "New booking offer",
		"Message": "Confirm below to take this booking.",
		"Booking": b,
		"When":    h.when(b),
		"Token":   token,
	})
}

// ConfirmPage redeems the token from the offer page form.
func (h *PublicHandler) ConfirmPage(c *gin.Context) {
	b, err := h.accept.Execute(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.renderInvitationError(c, err)
		return
	}

	c.HTML(http.StatusOK, invitationPage, gin.H{
		"Title":   "Booking confirmed",
		"Message": "The booking is yours. A confirmation email is on its way.",
		"Booking": b,
		"When":    h.when(b),
	})
}

func (h *PublicHandler) when(b *models.Booking) string {
	return h.zone.In(b.StartTime).Format("Mon 02 Jan 2006 15:04")
}

func (h *PublicHandler) Accept(c *gin.Context) {
	b, err := h.accept.Execute(c.Request.Context(), c.Param("token"))
	if err != nil {
		httperr.FromError(c, err, internalError)
		return
	}
	httpresp.OK(c, b)
}

func (h *PublicHandler) Decline(c *gin.Context) {
	a, err := h.close.DeclineByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		httperr.FromError(c, err, internalError)
		return
	}
	httpresp.OK(c, gin.H{"status": a.Status})
}

func (h *PublicHandler) renderInvitationError(c *gin.Context, err error) {
	switch {
	case httperr.IsKind(err, httperr.KindExpired), httperr.IsKind(err, httperr.KindNotFound):
		c.HTML(http.StatusGone, invitationPage, gin.H{
			"Title":   "Invitation unavailable",
			"Message": invalidInvitationMessage,
		})
	case httperr.IsKind(err, httperr.KindInvalidState):
		c.HTML(http.StatusConflict, invitationPage, gin.H{
			"Title":   "Booking unavailable",
			"Message": "this booking can no longer be claimed",
		})
	default:
		_ = c.Error(err)
		c.HTML(http.StatusInternalServerError, invitationPage, gin.H{
			"Title":   "Something went wrong",
			"Message": "please try the link again later",
		})
	}
}

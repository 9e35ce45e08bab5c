package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/assignment"
)

// InvitationHandler serves the staff side of the invitation protocol.
type InvitationHandler struct {
	create *assignment.CreateInvitation
	close  *assignment.CloseInvitation
	list   *assignment.ListInvitations
}

func NewInvitationHandler(d assignment.Deps) *InvitationHandler {
	return &InvitationHandler{
		create: assignment.NewCreateInvitation(d),
		close:  assignment.NewCloseInvitation(d),
		list:   assignment.NewListInvitations(d),
	}
}

type CreateInvitationRequest struct {
	Email string `json:"email"`
}

func (h *InvitationHandler) Create(c *gin.Context) {
	bookingID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req CreateInvitationRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.create.Execute(c.Request.Context(), bookingID, req.Email, middleware.ActorEmail(c))
	if err != nil {
		httperr.FromError(c, err, internalError)
		return
	}
	httpresp.Created(c, res)
}

func (h *InvitationHandler) List(c *gin.Context) {
	bookingID, ok := idParam(c, "id")
	if !ok {
		return
	}

	rows, err := h.list.Execute(c.Request.Context(), bookingID)
	if err != nil {
		httperr.FromError(c, err, internalError)
		return
	}
	httpresp.List(c, rows)
}

func (h *InvitationHandler) Decline(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	a, err := h.close.Decline(c.Request.Context(), id, middleware.ActorEmail(c))
	if err != nil {
		httperr.FromError(c, err, internalError)
		return
	}
	httpresp.OK(c, a)
}

func (h *InvitationHandler) Expire(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	a, err := h.close.Expire(c.Request.Context(), id, middleware.ActorEmail(c))
	if err != nil {
		httperr.FromError(c, err, internalError)
		return
	}
	httpresp.OK(c, a)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	create   *booking.CreateBooking
	status   *booking.SetBookingStatus
	cancel   *booking.CancelBooking
	price    *booking.SetPriceOverride
	complete *booking.CompleteBooking
	list     *booking.ListBookings
	delete   *booking.DeleteBooking
}

func NewBookingHandler(d booking.Deps, defaultCommission float64) *BookingHandler {
	return &BookingHandler{
		create:   booking.NewCreateBooking(d),
		status:   booking.NewSetBookingStatus(d),
		cancel:   booking.NewCancelBooking(d),
		price:    booking.NewSetPriceOverride(d),
		complete: booking.NewCompleteBooking(d, defaultCommission),
		list:     booking.NewListBookings(d),
		delete:   booking.NewDeleteBooking(d),
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
	ClientPhone string `json:"client_phone"`
	ServiceID   uint   `json:"service_id"`
	StartTime   string `json:"start_time"`
	Notes       string `json:"notes"`
	Source      string `json:"source"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetPriceRequest clears the override when amount is null.
type SetPriceRequest struct {
	Amount *float64 `json:"amount"`
}

type CompleteBookingRequest struct {
	Amount               *float64 `json:"amount"`
	Method               string   `json:"method"`
	CommissionPercentage *float64 `json:"commission_percentage"`
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.create.Execute(c.Request.Context(), booking.CreateBookingInput{
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		ClientPhone: req.ClientPhone,
		ServiceID:   req.ServiceID,
		StartTime:   req.StartTime,
		Notes:       req.Notes,
		Source:      req.Source,
		Actor:       middleware.ActorEmail(c),
	})
	if err != nil {
		httperr.FromError(c, err, internalError)
		return
	}

	httpresp.Created(c, b)
}

// ======================================================
// LISTS
// ======================================================

func (h *BookingHandler) ListUnassigned(c *gin.Context) {
	rows, err := h.list.Unassigned(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err, internalError)
		return
	}
	httpresp.List(c, rows)
}

func (h *BookingHandler) ListUpcoming(c *gin.Context) {
	rows, err := h.list.Upcoming(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err, internalError)
		return
	}
	httpresp.List(c, rows)
}

// ListByDate answers GET /bookings?date=YYYY-MM-DD (salon day).
func (h *BookingHandler) ListByDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Query parameter date is required.")
		return
	}

	rows, err := h.list.ByDate(c.Request.Context(), date)
	if err != nil {
		httperr.FromError(c, err, internalError)
		return
	}
	httpresp.List(c, rows)
}

func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	b, err := h.list.Get(c.Request.Context(), id)
	if err != nil {
		httperr.FromError(c, err, internalError)
		return
	}
	httpresp.OK(c, b)
}

// ======================================================
// TRANSITIONS
// ======================================================

func (h *BookingHandler) SetStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req SetStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.status.Execute(c.Request.Context(), id, req.Status, middleware.ActorEmail(c))
	if err != nil {
		httperr.FromError(c, err, internalError)
		return
	}
	httpresp.OK(c, b)
}

func (h *BookingHandler) SetPrice(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req SetPriceRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.price.Execute(c.Request.Context(), id, req.Amount, middleware.ActorEmail(c))
	if err != nil {
		httperr.FromError(c, err, internalError)
		return
	}
	httpresp.OK(c, b)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req CompleteBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.complete.Execute(c.Request.Context(), booking.CompleteBookingInput{
		BookingID:  id,
		Amount:     req.Amount,
		Method:     req.Method,
		Percentage: req.CommissionPercentage,
		Actor:      middleware.ActorEmail(c),
	})
	if err != nil {
		httperr.FromError(c, err, internalError)
		return
	}
	httpresp.OK(c, res)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	b, err := h.cancel.Execute(c.Request.Context(), id, middleware.ActorEmail(c))
	if err != nil {
		httperr.FromError(c, err, internalError)
		return
	}
	httpresp.OK(c, b)
}

func (h *BookingHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.delete.Execute(c.Request.Context(), id, middleware.ActorEmail(c)); err != nil {
		httperr.FromError(c, err, internalError)
		return
	}
	c.Status(http.StatusNoContent)
}

package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

type ClosedDayStore interface {
	ListClosedDays(ctx context.Context, from, to string) ([]models.ClosedDay, error)
	ReplaceClosedDays(ctx context.Context, days []models.ClosedDay) error
}

// ClosedDaysHandler edits the salon calendar: weekly closed weekdays come
// from config, specific dates live in the closed_days table.
type ClosedDaysHandler struct {
	store    ClosedDayStore
	weekdays []time.Weekday
	audit    *audit.Dispatcher
}

func NewClosedDaysHandler(store ClosedDayStore, weekdays []time.Weekday, audit *audit.Dispatcher) *ClosedDaysHandler {
	return &ClosedDaysHandler{store: store, weekdays: weekdays, audit: audit}
}

type ClosedDayInput struct {
	Date   string `json:"date" binding:"required"`
	Reason string `json:"reason"`
}

type ClosedDaysUpdateRequest struct {
	Days []ClosedDayInput `json:"days"`
}

func (h *ClosedDaysHandler) Get(c *gin.Context) {
	days, err := h.store.ListClosedDays(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		httperr.Internal(c, "failed_to_get_closed_days", "Could not load closed days.")
		return
	}
	if days == nil {
		days = []models.ClosedDay{}
	}

	weekdays := make([]int, 0, len(h.weekdays))
	for _, wd := range h.weekdays {
		weekdays = append(weekdays, int(wd))
	}

	httpresp.OK(c, gin.H{
		"closed_weekdays": weekdays,
		"days":            days,
	})
}

func (h *ClosedDaysHandler) Update(c *gin.Context) {
	var req ClosedDaysUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	seen := map[string]bool{}
	toSave := make([]models.ClosedDay, 0, len(req.Days))
	for _, d := range req.Days {
		key := strings.TrimSpace(d.Date)
		if _, _, _, err := timezone.ParseDateKey(key); err != nil {
			httperr.FromError(c, httperr.ErrValidation("invalid_date"), internalError)
			return
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		toSave = append(toSave, models.ClosedDay{Date: key, Reason: strings.TrimSpace(d.Reason)})
	}

	if err := h.store.ReplaceClosedDays(c.Request.Context(), toSave); err != nil {
		_ = c.Error(err)
		httperr.Internal(c, "failed_to_save_closed_days", "Could not save closed days.")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorEmail: middleware.ActorEmail(c),
		Action:     "closed_days_replaced",
		Entity:     "closed_day",
		Metadata:   map[string]int{"days": len(toSave)},
	})

	httpresp.OK(c, gin.H{"status": "ok", "days": toSave})
}

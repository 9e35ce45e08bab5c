package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/report"
)

type ReportHandler struct {
	commissions *report.CommissionReport
	export      *report.ExportCommissionReport
}

func NewReportHandler(commissions *report.CommissionReport, export *report.ExportCommissionReport) *ReportHandler {
	return &ReportHandler{commissions: commissions, export: export}
}

// Commissions answers GET /reports/commissions?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *ReportHandler) Commissions(c *gin.Context) {
	from := c.Query("from")
	if from == "" {
		httperr.BadRequest(c, "missing_from", "Query parameter from is required.")
		return
	}

	res, err := h.commissions.Execute(c.Request.Context(), from, c.Query("to"))
	if err != nil {
		httperr.FromError(c, err, internalError)
		return
	}
	httpresp.OK(c, res)
}

func (h *ReportHandler) ExportCommissions(c *gin.Context) {
	from := c.Query("from")
	if from == "" {
		httperr.BadRequest(c, "missing_from", "Query parameter from is required.")
		return
	}

	res, err := h.export.Execute(c.Request.Context(), from, c.Query("to"), middleware.ActorEmail(c))
	if err != nil {
		httperr.FromError(c, err, internalError)
		return
	}
	httpresp.Created(c, res)
}

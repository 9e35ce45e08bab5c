package report

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/storage"
)

type ExportResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ExportCommissionReport archives a report snapshot as JSON in object storage.
type ExportCommissionReport struct {
	report *CommissionReport
	store  storage.ObjectStore
	audit  *audit.Dispatcher
}

func NewExportCommissionReport(report *CommissionReport, store storage.ObjectStore, audit *audit.Dispatcher) *ExportCommissionReport {
	return &ExportCommissionReport{report: report, store: store, audit: audit}
}

func (uc *ExportCommissionReport) Execute(ctx context.Context, from, to, actor string) (*ExportResult, error) {
	if uc.store == nil {
		return nil, httperr.ErrInvalidState("export_storage_not_configured")
	}

	res, err := uc.report.Execute(ctx, from, to)
	if err != nil {
		return nil, err
	}

	body, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}

	key := fmt.Sprintf("reports/commissions/%s_%s/%s.json", res.From, res.To, uuid.NewString())
	url, err := uc.store.Put(ctx, key, body, "application/json")
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorEmail: actor,
		Action:     "commission_report_exported",
		Entity:     "report",
		Metadata:   map[string]string{"key": key, "from": res.From, "to": res.To},
	})

	return &ExportResult{Key: key, URL: url}, nil
}

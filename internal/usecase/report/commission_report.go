package report

import (
	"context"
	"sort"
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/commission"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
	"github.com/BruksfildServices01/salon-scheduler/internal/tracing"
)

const unassigned = "unassigned"

type Row struct {
	BookingID            uint      `json:"booking_id"`
	StartTime            time.Time `json:"start_time"`
	ClientName           string    `json:"client_name"`
	ServiceName          string    `json:"service_name"`
	Amount               float64   `json:"amount"`
	CommissionAmount     float64   `json:"commission_amount"`
	CommissionPercentage float64   `json:"commission_percentage"`
	AssigneeEmail        *string   `json:"assignee_email"`
	Method               string    `json:"method"`
}

type AssigneeTotal struct {
	AssigneeEmail string  `json:"assignee_email"`
	Bookings      int     `json:"bookings"`
	Amount        float64 `json:"amount"`
	Commission    float64 `json:"commission"`
}

type CommissionReportResult struct {
	From            string          `json:"from"`
	To              string          `json:"to"`
	Rows            []Row           `json:"rows"`
	TotalAmount     float64         `json:"total_amount"`
	TotalCommission float64         `json:"total_commission"`
	ByAssignee      []AssigneeTotal `json:"by_assignee"`
}

type CommissionReport struct {
	repo domain.Repository
	zone timezone.Zone
}

func NewCommissionReport(repo domain.Repository, zone timezone.Zone) *CommissionReport {
	return &CommissionReport{repo: repo, zone: zone}
}

// Execute aggregates settled bookings whose start falls on the salon days
// [from, to], both inclusive.
func (uc *CommissionReport) Execute(
	ctx context.Context,
	from string,
	to string,
) (res *CommissionReportResult, err error) {

	ctx, span := tracing.Start(ctx, "report.Commissions")
	defer func() { tracing.End(span, err) }()

	if to == "" {
		to = from
	}
	start, _, err := uc.zone.DayBounds(from)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_from")
	}
	_, end, err := uc.zone.DayBounds(to)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_to")
	}
	if !end.After(start) {
		return nil, httperr.ErrValidation("invalid_range")
	}

	bookings, err := uc.repo.ListDoneBookings(ctx, start, end)
	if err != nil {
		return nil, err
	}

	res = &CommissionReportResult{From: from, To: to, Rows: []Row{}, ByAssignee: []AssigneeTotal{}}
	perAssignee := map[string]*AssigneeTotal{}

	for _, b := range bookings {
		row := Row{
			BookingID:   b.ID,
			StartTime:   b.StartTime,
			ClientName:  b.ClientName,
			ServiceName: b.Service.Name,
		}
		for _, p := range b.Payments {
			row.Amount += p.Amount
			row.Method = p.Method
		}
		for _, c := range b.Commissions {
			row.CommissionAmount += c.Amount
			row.CommissionPercentage = c.Percentage
			row.AssigneeEmail = c.AssigneeEmail
		}
		row.Amount = commission.Round2(row.Amount)
		row.CommissionAmount = commission.Round2(row.CommissionAmount)

		res.Rows = append(res.Rows, row)
		res.TotalAmount += row.Amount
		res.TotalCommission += row.CommissionAmount

		key := unassigned
		if row.AssigneeEmail != nil {
			key = *row.AssigneeEmail
		}
		t, ok := perAssignee[key]
		if !ok {
			t = &AssigneeTotal{AssigneeEmail: key}
			perAssignee[key] = t
		}
		t.Bookings++
		t.Amount = commission.Round2(t.Amount + row.Amount)
		t.Commission = commission.Round2(t.Commission + row.CommissionAmount)
	}

	res.TotalAmount = commission.Round2(res.TotalAmount)
	res.TotalCommission = commission.Round2(res.TotalCommission)

	for _, t := range perAssignee {
		res.ByAssignee = append(res.ByAssignee, *t)
	}
	sort.Slice(res.ByAssignee, func(i, j int) bool {
		return res.ByAssignee[i].AssigneeEmail < res.ByAssignee[j].AssigneeEmail
	})

	return res, nil
}

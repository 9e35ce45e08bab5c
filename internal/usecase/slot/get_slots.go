package slot

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

type ClosedDayChecker interface {
	IsClosedDay(ctx context.Context, dateKey string) (bool, error)
}

type GetSlots struct {
	closedDays     ClosedDayChecker
	zone           timezone.Zone
	hours          domain.Hours
	closedWeekdays []time.Weekday
	now            func() time.Time
}

func NewGetSlots(
	closedDays ClosedDayChecker,
	zone timezone.Zone,
	hours domain.Hours,
	closedWeekdays []time.Weekday,
	now func() time.Time,
) *GetSlots {
	if now == nil {
		now = time.Now
	}
	return &GetSlots{
		closedDays:     closedDays,
		zone:           zone,
		hours:          hours,
		closedWeekdays: closedWeekdays,
		now:            now,
	}
}

// Execute lists bookable starts for the salon-local date key. An empty key
// means today.
func (uc *GetSlots) Execute(ctx context.Context, dateKey string) ([]domain.Slot, error) {
	now := uc.now()
	if dateKey == "" {
		dateKey = uc.zone.DateKey(now)
	}

	weekday, err := timezone.Weekday(dateKey)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date")
	}

	closed := false
	for _, wd := range uc.closedWeekdays {
		if wd == weekday {
			closed = true
			break
		}
	}
	if !closed && uc.closedDays != nil {
		if closed, err = uc.closedDays.IsClosedDay(ctx, dateKey); err != nil {
			return nil, err
		}
	}

	return domain.Generate(uc.zone, dateKey, uc.hours, now, closed)
}

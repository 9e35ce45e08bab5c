package slot

import (
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

const labelLayout = "15:04"

type Hours struct {
	Opening     int
	Closing     int
	SlotMinutes int
}

func (h Hours) Validate() error {
	if h.Opening < 0 || h.Closing > 24 || h.Opening >= h.Closing || h.SlotMinutes <= 0 {
		return httperr.ErrValidation("invalid_business_hours")
	}
	return nil
}

// Slot is the shared availability format for every consumer.
type Slot struct {
	Start time.Time `json:"start"`
	Label string    `json:"label"`
}

// Generate lists the bookable starts of a salon day. Every slot ends by
// closing time, starts at or before now are dropped and a closed day yields
// nothing.
func Generate(
	zone timezone.Zone,
	dateKey string,
	h Hours,
	now time.Time,
	closed bool,
) ([]Slot, error) {

	if err := h.Validate(); err != nil {
		return nil, err
	}
	if _, _, _, err := timezone.ParseDateKey(dateKey); err != nil {
		return nil, httperr.ErrValidation("invalid_date")
	}

	slots := []Slot{}
	if closed {
		return slots, nil
	}

	for m := h.Opening * 60; m+h.SlotMinutes <= h.Closing*60; m += h.SlotMinutes {
		start, err := zone.WallClock(dateKey, m)
		if err != nil {
			return nil, err
		}
		if !start.After(now) {
			continue
		}
		slots = append(slots, Slot{
			Start: start,
			Label: zone.In(start).Format(labelLayout),
		})
	}

	return slots, nil
}

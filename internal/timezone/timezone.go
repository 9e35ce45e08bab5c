package timezone

import (
	"fmt"
	"time"
)

const (
	DefaultTimezone = "America/Mexico_City"
	DateKeyLayout   = "2006-01-02"
)

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Zone is the salon's fixed civil timezone. Every "salon day" computation in
// the service goes through it, independent of the server timezone.
type Zone struct {
	loc *time.Location
}

func NewZone(tz string) Zone {
	return Zone{loc: Location(tz)}
}

func (z Zone) Location() *time.Location {
	if z.loc == nil {
		return Location(DefaultTimezone)
	}
	return z.loc
}

func (z Zone) In(t time.Time) time.Time {
	return t.In(z.Location())
}

// DateKey returns the YYYY-MM-DD civil date of t in the salon zone.
func (z Zone) DateKey(t time.Time) string {
	return t.In(z.Location()).Format(DateKeyLayout)
}

// ParseDateKey validates a YYYY-MM-DD key and returns its civil components.
func ParseDateKey(key string) (year int, month time.Month, day int, err error) {
	d, err := time.Parse(DateKeyLayout, key)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return d.Year(), d.Month(), d.Day(), nil
}

// WallClock converts "minutes after local midnight" on the given civil date
// into an absolute instant. The UTC offset is resolved for that specific
// instant, so days with a DST change produce correct instants on both sides.
func (z Zone) WallClock(key string, minutes int) (time.Time, error) {
	y, m, d, err := ParseDateKey(key)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, z.Location()), nil
}

// DayBounds returns [start, end) of the salon day identified by key.
func (z Zone) DayBounds(key string) (time.Time, time.Time, error) {
	y, m, d, err := ParseDateKey(key)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(y, m, d, 0, 0, 0, 0, z.Location())
	end := time.Date(y, m, d+1, 0, 0, 0, 0, z.Location())
	return start, end, nil
}

// Weekday of the civil date key.
func Weekday(key string) (time.Weekday, error) {
	y, m, d, err := ParseDateKey(key)
	if err != nil {
		return 0, err
	}
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC).Weekday(), nil
}

// ParseLocal accepts RFC3339 instants or a local "YYYY-MM-DDTHH:MM"
// / "YYYY-MM-DD HH:MM" wall time interpreted in the salon zone.
func (z Zone) ParseLocal(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, raw, z.Location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable time %q", raw)
}

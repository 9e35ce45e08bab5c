package slot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

var hours = Hours{Opening: 9, Closing: 19, SlotMinutes: 30}

func TestFutureDateCount(t *testing.T) {
	zone := timezone.NewZone("America/Mexico_City")
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for _, h := range []Hours{hours, {Opening: 10, Closing: 18, SlotMinutes: 45}, {Opening: 8, Closing: 20, SlotMinutes: 60}} {
		slots, err := Generate(zone, "2024-06-10", h, now, false)
		require.NoError(t, err)
		assert.Len(t, slots, (h.Closing-h.Opening)*60/h.SlotMinutes)
	}
}

func TestUnevenSlotLengthEndsByClosing(t *testing.T) {
	zone := timezone.NewZone("America/Mexico_City")
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	h := Hours{Opening: 10, Closing: 18, SlotMinutes: 45}

	slots, err := Generate(zone, "2024-06-10", h, now, false)
	require.NoError(t, err)

	require.Len(t, slots, 10)
	last := slots[len(slots)-1]
	assert.Equal(t, "17:00", last.Label)

	closing, err := zone.WallClock("2024-06-10", h.Closing*60)
	require.NoError(t, err)
	assert.False(t, last.Start.Add(45*time.Minute).After(closing))
}

func TestLabelsAndInstants(t *testing.T) {
	zone := timezone.NewZone("America/Mexico_City")
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	slots, err := Generate(zone, "2024-06-10", hours, now, false)
	require.NoError(t, err)

	assert.Equal(t, "09:00", slots[0].Label)
	assert.Equal(t, time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC), slots[0].Start.UTC())
	assert.Equal(t, "18:30", slots[len(slots)-1].Label)
	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i].Start.After(slots[i-1].Start))
	}
}

func TestTodayDropsPastSlots(t *testing.T) {
	zone := timezone.NewZone("America/Mexico_City")
	// 11:30 local exactly: the 11:30 slot itself is gone.
	now := time.Date(2024, 6, 10, 17, 30, 0, 0, time.UTC)

	slots, err := Generate(zone, "2024-06-10", hours, now, false)
	require.NoError(t, err)

	require.NotEmpty(t, slots)
	assert.Equal(t, "12:00", slots[0].Label)
	for _, s := range slots {
		assert.True(t, s.Start.After(now))
	}
}

func TestDSTDayKeepsWallClockLabels(t *testing.T) {
	zone := timezone.NewZone("America/New_York")
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	slots, err := Generate(zone, "2024-03-10", hours, now, false)
	require.NoError(t, err)

	require.Len(t, slots, 20)
	assert.Equal(t, "09:00", slots[0].Label)
	assert.Equal(t, time.Date(2024, 3, 10, 13, 0, 0, 0, time.UTC), slots[0].Start.UTC())
}

func TestClosedDay(t *testing.T) {
	zone := timezone.NewZone("America/Mexico_City")
	slots, err := Generate(zone, "2024-06-10", hours, time.Time{}, true)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestInvalidInput(t *testing.T) {
	zone := timezone.NewZone("America/Mexico_City")

	_, err := Generate(zone, "10/06/2024", hours, time.Time{}, false)
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))

	_, err = Generate(zone, "2024-06-10", Hours{Opening: 19, Closing: 9, SlotMinutes: 30}, time.Time{}, false)
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))

	_, err = Generate(zone, "2024-06-10", Hours{Opening: 9, Closing: 19}, time.Time{}, false)
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))
}

package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationFallsBackToDefault(t *testing.T) {
	assert.Equal(t, DefaultTimezone, Location("Not/AZone").String())
	assert.Equal(t, "Europe/Madrid", Location("Europe/Madrid").String())
}

func TestDateKeyUsesSalonZone(t *testing.T) {
	z := NewZone("America/Mexico_City")

	// 03:00 UTC on the 11th is still the evening of the 10th in Mexico City.
	instant := time.Date(2024, 6, 11, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-06-10", z.DateKey(instant))
}

func TestWallClockRecomputesOffsetAcrossDST(t *testing.T) {
	z := NewZone("America/New_York")

	// 2024-03-10 is the spring-forward day in New York.
	before, err := z.WallClock("2024-03-10", 60)
	require.NoError(t, err)
	after, err := z.WallClock("2024-03-10", 4*60)
	require.NoError(t, err)

	_, offBefore := before.Zone()
	_, offAfter := after.Zone()
	assert.Equal(t, -5*3600, offBefore)
	assert.Equal(t, -4*3600, offAfter)
	assert.Equal(t, 2*time.Hour, after.Sub(before))
}

func TestDayBoundsOnShortDay(t *testing.T) {
	z := NewZone("America/New_York")

	start, end, err := z.DayBounds("2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, 23*time.Hour, end.Sub(start))
}

func TestParseDateKeyRejectsGarbage(t *testing.T) {
	_, _, _, err := ParseDateKey("10/06/2024")
	assert.Error(t, err)

	_, err = NewZone(DefaultTimezone).WallClock("2024-13-01", 0)
	assert.Error(t, err)
}

func TestWeekday(t *testing.T) {
	wd, err := Weekday("2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, wd)
}

func TestParseLocal(t *testing.T) {
	z := NewZone("America/Mexico_City")

	local, err := z.ParseLocal("2024-06-10T10:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 10, 16, 0, 0, 0, time.UTC), local.UTC())

	abs, err := z.ParseLocal("2024-06-10T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC), abs.UTC())

	_, err = z.ParseLocal("tomorrow")
	assert.Error(t, err)
}

package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

func TestCanSetStatus(t *testing.T) {
	all := []Status{StatusScheduled, StatusConfirmed, StatusDone, StatusCanceled}
	allowed := map[[2]Status]bool{
		{StatusScheduled, StatusConfirmed}: true,
		{StatusScheduled, StatusCanceled}:  true,
		{StatusConfirmed, StatusCanceled}:  true,
	}

	for _, from := range all {
		for _, to := range all {
			err := CanSetStatus(from, to)
			if allowed[[2]Status{from, to}] {
				assert.NoError(t, err, "%s -> %s", from, to)
				continue
			}
			assert.True(t, httperr.IsKind(err, httperr.KindInvalidTransition), "%s -> %s", from, to)
		}
	}
}

func TestNothingReturnsToScheduled(t *testing.T) {
	for _, from := range []Status{StatusScheduled, StatusConfirmed, StatusDone, StatusCanceled} {
		assert.False(t, from.Allows(StatusScheduled), from)
	}
}

func TestCanComplete(t *testing.T) {
	assert.NoError(t, CanComplete(StatusScheduled))
	assert.NoError(t, CanComplete(StatusConfirmed))
	assert.True(t, httperr.IsKind(CanComplete(StatusDone), httperr.KindAlreadyCompleted))
	assert.True(t, httperr.IsKind(CanComplete(StatusCanceled), httperr.KindInvalidState))
}

func TestCanCancel(t *testing.T) {
	assert.NoError(t, CanCancel(StatusScheduled))
	assert.NoError(t, CanCancel(StatusConfirmed))
	assert.True(t, httperr.IsKind(CanCancel(StatusDone), httperr.KindInvalidTransition))
	assert.True(t, httperr.IsKind(CanCancel(StatusCanceled), httperr.KindInvalidTransition))
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("confirmed")
	assert.NoError(t, err)
	assert.Equal(t, StatusConfirmed, s)

	_, err = ParseStatus("completed")
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))
}

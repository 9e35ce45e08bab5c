package assignment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

func TestNewInvitation(t *testing.T) {
	now := time.Date(2024, 6, 9, 12, 0, 0, 0, time.UTC)

	a, err := New(4, "a@x.com", now)
	require.NoError(t, err)

	assert.Equal(t, string(StatusPending), a.Status)
	assert.Equal(t, now.Add(24*time.Hour), a.ExpiresAt)
	assert.Len(t, a.Token, 43)

	b, err := New(4, "a@x.com", now)
	require.NoError(t, err)
	assert.NotEqual(t, a.Token, b.Token)
}

func TestCanAccept(t *testing.T) {
	now := time.Now()
	a, _ := New(1, "a@x.com", now)

	assert.NoError(t, CanAccept(a, now.Add(24*time.Hour)))
	assert.True(t, httperr.IsKind(CanAccept(a, now.Add(24*time.Hour+time.Second)), httperr.KindExpired))

	a.Status = string(StatusAccepted)
	assert.True(t, httperr.IsKind(CanAccept(a, now), httperr.KindExpired))
}

func TestCanClose(t *testing.T) {
	a, _ := New(1, "a@x.com", time.Now())
	assert.NoError(t, CanClose(a))

	for _, s := range []Status{StatusAccepted, StatusDeclined, StatusExpired} {
		a.Status = string(s)
		assert.True(t, httperr.IsKind(CanClose(a), httperr.KindInvalidState), s)
	}
}

func TestNormalizeEmail(t *testing.T) {
	email, err := NormalizeEmail("  A@X.com ")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)

	for _, bad := range []string{"", "nope", "a@", "@x.com"} {
		_, err := NormalizeEmail(bad)
		assert.True(t, httperr.IsKind(err, httperr.KindValidation), bad)
	}
}

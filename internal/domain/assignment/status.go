package assignment

import (
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
	StatusExpired  Status = "expired"
)

// TTL is the fixed acceptance window of an invitation.
const TTL = 24 * time.Hour

func (s Status) IsTerminal() bool {
	return s != StatusPending
}

// IsExpired is the read-time check; it holds even before the sweep runs.
func IsExpired(a *models.Assignment, now time.Time) bool {
	return now.After(a.ExpiresAt)
}

// CanAccept guards the token link.
func CanAccept(a *models.Assignment, now time.Time) error {
	if Status(a.Status) != StatusPending || IsExpired(a, now) {
		return httperr.ErrExpired("invitation_expired")
	}
	return nil
}

// CanClose guards decline and expire.
func CanClose(a *models.Assignment) error {
	if Status(a.Status).IsTerminal() {
		return httperr.ErrInvalidState("invitation_closed")
	}
	return nil
}

package booking

import "github.com/BruksfildServices01/salon-scheduler/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusDone      Status = "done"
	StatusCanceled  Status = "canceled"
)

var transitions = map[Status][]Status{
	StatusScheduled: {StatusConfirmed, StatusCanceled},
	StatusConfirmed: {StatusDone, StatusCanceled},
}

func InitialStatus() Status {
	return StatusScheduled
}

func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusScheduled, StatusConfirmed, StatusDone, StatusCanceled:
		return s, nil
	}
	return "", httperr.ErrValidation("invalid_status")
}

func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusCanceled
}

// Allows reports whether the graph has an edge from s to target.
func (s Status) Allows(target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// ===============================
// Validations
// ===============================

// CanSetStatus guards the staff status endpoint. Done is only reachable
// through completion.
func CanSetStatus(current, target Status) error {
	if target == StatusDone || !current.Allows(target) {
		return httperr.ErrInvalidTransition("invalid_transition")
	}
	return nil
}

func CanCancel(current Status) error {
	if !current.Allows(StatusCanceled) {
		return httperr.ErrInvalidTransition("invalid_transition")
	}
	return nil
}

func CanComplete(current Status) error {
	switch current {
	case StatusScheduled, StatusConfirmed:
		return nil
	case StatusDone:
		return httperr.ErrAlreadyCompleted("booking_already_completed")
	}
	return httperr.ErrInvalidState("booking_not_completable")
}

func CanEditPrice(current Status) error {
	if current != StatusScheduled && current != StatusConfirmed {
		return httperr.ErrInvalidState("price_locked")
	}
	return nil
}

// CanInvite only lets unconfirmed bookings go out to collaborators.
func CanInvite(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrInvalidState("booking_not_invitable")
	}
	return nil
}

func CanDelete(current Status) error {
	if current == StatusDone {
		return httperr.ErrInvalidState("booking_already_completed")
	}
	return nil
}

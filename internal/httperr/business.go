package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Kind classifies engine failures. Callers decide retry behaviour from it.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindInvalidState      Kind = "invalid_state"
	KindInvalidTransition Kind = "invalid_transition"
	KindNotFound          Kind = "not_found"
	KindExpired           Kind = "expired"
	KindAlreadyCompleted  Kind = "already_completed"
)

type BusinessError struct {
	Kind Kind
	Code string
}

func (e BusinessError) Error() string {
	return string(e.Kind) + ": " + e.Code
}

func ErrValidation(code string) error        { return BusinessError{Kind: KindValidation, Code: code} }
func ErrInvalidState(code string) error      { return BusinessError{Kind: KindInvalidState, Code: code} }
func ErrInvalidTransition(code string) error { return BusinessError{Kind: KindInvalidTransition, Code: code} }
func ErrNotFound(code string) error          { return BusinessError{Kind: KindNotFound, Code: code} }
func ErrExpired(code string) error           { return BusinessError{Kind: KindExpired, Code: code} }
func ErrAlreadyCompleted(code string) error  { return BusinessError{Kind: KindAlreadyCompleted, Code: code} }

// IsBusiness reports whether err carries the given code.
func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func IsKind(err error, kind Kind) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}

// IsUniqueViolation detects Postgres 23505 coming back through gorm.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

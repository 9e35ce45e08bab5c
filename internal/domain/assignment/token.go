package assignment

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

const tokenBytes = 32

var validate = validator.New()

func NewToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// NormalizeEmail lowercases and validates an invitee address.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if err := validate.Var(email, "required,email"); err != nil {
		return "", httperr.ErrValidation("invalid_email")
	}
	return email, nil
}

// New builds a pending invitation valid for TTL.
func New(bookingID uint, email string, now time.Time) (*models.Assignment, error) {
	token, err := NewToken()
	if err != nil {
		return nil, err
	}

	return &models.Assignment{
		BookingID: bookingID,
		Email:     email,
		Status:    string(StatusPending),
		Token:     token,
		ExpiresAt: now.Add(TTL),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

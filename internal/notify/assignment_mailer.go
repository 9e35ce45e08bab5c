package notify

import (
	"context"
	"fmt"
	"html"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/logging"
)

// BookingSummary is what a collaborator needs to decide on an invitation.
type BookingSummary struct {
	BookingID   uint
	ServiceName string
	ClientName  string
	StartsAt    string
}

func (s BookingSummary) String() string {
	return fmt.Sprintf("%s for %s at %s", s.ServiceName, s.ClientName, s.StartsAt)
}

// AssignmentMailer renders invitation and acceptance emails on top of an
// EmailSender.
type AssignmentMailer struct {
	sender      EmailSender
	adminNotify string
	logger      *zap.Logger
}

func NewAssignmentMailer(sender EmailSender, adminNotify string, logger *zap.Logger) *AssignmentMailer {
	return &AssignmentMailer{
		sender:      sender,
		adminNotify: adminNotify,
		logger:      logging.OrNop(logger),
	}
}

func (m *AssignmentMailer) SendAssignmentEmail(
	ctx context.Context,
	to string,
	summary BookingSummary,
	acceptURL string,
	expiresAt time.Time,
) error {
	if m == nil || m.sender == nil {
		return fmt.Errorf("notify: no email sender configured")
	}

	deadline := expiresAt.UTC().Format("2006-01-02 15:04 MST")
	body := fmt.Sprintf(
		"You have been invited to take a booking: %s.\n\nAccept it here: %s\n\nThe link expires on %s.",
		summary, acceptURL, deadline,
	)
	htmlBody := fmt.Sprintf(
		`<p>You have been invited to take a booking: <strong>%s</strong>.</p>`+
			`<p><a href="%s">Accept booking</a></p><p>The link expires on %s.</p>`,
		html.EscapeString(summary.String()), html.EscapeString(acceptURL), deadline,
	)

	return m.sender.Send(ctx, EmailMessage{
		To:        to,
		Subject:   "New booking invitation: " + summary.ServiceName,
		Text:      body,
		HTML:      htmlBody,
		Category:  CategoryInvitation,
		BookingID: summary.BookingID,
	})
}

// SendAcceptanceEmail confirms the booking to the collaborator and, when
// configured, tells the salon who took it. Admin delivery errors are only logged.
func (m *AssignmentMailer) SendAcceptanceEmail(
	ctx context.Context,
	to string,
	summary BookingSummary,
) error {
	if m == nil || m.sender == nil {
		return fmt.Errorf("notify: no email sender configured")
	}

	err := m.sender.Send(ctx, EmailMessage{
		To:        to,
		Subject:   "Booking confirmed: " + summary.ServiceName,
		Text:      fmt.Sprintf("The booking is yours: %s.", summary),
		Category:  CategoryAcceptance,
		BookingID: summary.BookingID,
	})

	if m.adminNotify != "" {
		if adminErr := m.sender.Send(ctx, EmailMessage{
			To:        m.adminNotify,
			Subject:   "Invitation accepted: " + summary.ServiceName,
			Text:      fmt.Sprintf("%s accepted booking #%d: %s.", to, summary.BookingID, summary),
			Category:  CategoryAdminNotice,
			BookingID: summary.BookingID,
		}); adminErr != nil {
			m.logger.Warn("admin acceptance notice failed", zap.Error(adminErr))
		}
	}

	return err
}

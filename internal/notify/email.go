package notify

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/logging"
)

// Message categories, used as provider tags so bounces and opens can be
// split per flow.
const (
	CategoryInvitation  = "invitation"
	CategoryAcceptance  = "acceptance"
	CategoryAdminNotice = "admin_notice"
)

const defaultFromName = "Salon"

var ErrNoRecipient = errors.New("notify: message has no recipient")

// EmailSender delivers one message. SendGrid, SES and the stub are swappable.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

type EmailMessage struct {
	To      string
	Subject string
	Text    string
	HTML    string

	Category  string
	BookingID uint
}

func (m EmailMessage) validate() error {
	if m.To == "" {
		return ErrNoRecipient
	}
	if m.Subject == "" {
		return fmt.Errorf("notify: message to %s has no subject", m.To)
	}
	return nil
}

func (m EmailMessage) plainText() string {
	if m.Text != "" {
		return m.Text
	}
	return m.Subject
}

// tags are the provider-side labels of a message.
func (m EmailMessage) tags() map[string]string {
	out := map[string]string{}
	if m.Category != "" {
		out["category"] = m.Category
	}
	if m.BookingID != 0 {
		out["booking_id"] = strconv.FormatUint(uint64(m.BookingID), 10)
	}
	return out
}

func (m EmailMessage) fields() []zap.Field {
	return []zap.Field{
		zap.String("to", m.To),
		zap.String("category", m.Category),
		zap.Uint("booking_id", m.BookingID),
	}
}

// sender is the identity every provider sends from.
type sender struct {
	email string
	name  string
}

func newSender(email, name string) sender {
	if name == "" {
		name = defaultFromName
	}
	return sender{email: email, name: name}
}

func (s sender) address() string {
	return fmt.Sprintf("%s <%s>", s.name, s.email)
}

// StubEmailSender only logs. Used in development and when no provider is set.
type StubEmailSender struct {
	logger *zap.Logger
}

func NewStubEmailSender(logger *zap.Logger) *StubEmailSender {
	return &StubEmailSender{logger: logging.OrNop(logger)}
}

func (s *StubEmailSender) Send(_ context.Context, msg EmailMessage) error {
	if err := msg.validate(); err != nil {
		return err
	}
	s.logger.Info("email not sent, stub provider", append(msg.fields(), zap.String("subject", msg.Subject))...)
	return nil
}

var _ EmailSender = (*StubEmailSender)(nil)

package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/logging"
)

type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

type SendGridSender struct {
	client *sendgrid.Client
	from   sender
	logger *zap.Logger
}

// NewSendGridSender returns nil when no API key is configured.
func NewSendGridSender(cfg SendGridConfig, logger *zap.Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	return &SendGridSender{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   newSender(cfg.FromEmail, cfg.FromName),
		logger: logging.OrNop(logger),
	}
}

// build maps a salon message onto a v3 mail payload. Tags travel as a
// category plus custom args, which SendGrid echoes back in its event webhook.
func (s *SendGridSender) build(msg EmailMessage) *mail.SGMailV3 {
	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail("", msg.To))

	out := mail.NewV3Mail()
	out.SetFrom(mail.NewEmail(s.from.name, s.from.email))
	out.Subject = msg.Subject
	out.AddPersonalizations(p)

	// SendGrid wants text/plain first and rejects empty content values.
	out.AddContent(mail.NewContent("text/plain", msg.plainText()))
	if msg.HTML != "" {
		out.AddContent(mail.NewContent("text/html", msg.HTML))
	}

	if msg.Category != "" {
		out.AddCategories(msg.Category)
	}
	for k, v := range msg.tags() {
		out.SetCustomArg(k, v)
	}
	return out
}

func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("notify: sendgrid client not configured")
	}
	if err := msg.validate(); err != nil {
		return err
	}

	resp, err := s.client.SendWithContext(ctx, s.build(msg))
	if err != nil {
		s.logger.Error("sendgrid send failed", append(msg.fields(), zap.Error(err))...)
		return fmt.Errorf("notify: sendgrid: %w", err)
	}
	if resp.StatusCode >= 400 {
		s.logger.Error("sendgrid rejected message",
			append(msg.fields(), zap.Int("status", resp.StatusCode), zap.String("body", resp.Body))...)
		return fmt.Errorf("notify: sendgrid status %d", resp.StatusCode)
	}

	s.logger.Debug("email sent", append(msg.fields(), zap.String("provider", "sendgrid"))...)
	return nil
}

var _ EmailSender = (*SendGridSender)(nil)

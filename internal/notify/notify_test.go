package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []EmailMessage
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg EmailMessage) error {
	r.sent = append(r.sent, msg)
	return r.err
}

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestNewSendGridSender(t *testing.T) {
	assert.Nil(t, NewSendGridSender(SendGridConfig{FromEmail: "x@salon.com"}, nil))

	s := NewSendGridSender(SendGridConfig{APIKey: "key", FromEmail: "x@salon.com"}, nil)
	require.NotNil(t, s)
	assert.Equal(t, "Salon <x@salon.com>", s.from.address())
}

func TestSendGridSenderNotConfigured(t *testing.T) {
	var s *SendGridSender
	assert.Error(t, s.Send(context.Background(), EmailMessage{To: "a@x.com", Subject: "Hi"}))
}

func TestSendGridPayloadCarriesTags(t *testing.T) {
	s := NewSendGridSender(SendGridConfig{APIKey: "key", FromEmail: "x@salon.com"}, nil)

	out := s.build(EmailMessage{To: "a@x.com", Subject: "Hi", Category: CategoryInvitation, BookingID: 12})

	assert.Equal(t, []string{CategoryInvitation}, out.Categories)
	assert.Equal(t, map[string]string{"category": CategoryInvitation, "booking_id": "12"}, out.CustomArgs)
	require.Len(t, out.Content, 1)
	assert.Equal(t, "text/plain", out.Content[0].Type)
	assert.Equal(t, "Hi", out.Content[0].Value)
}

func TestSESSender(t *testing.T) {
	assert.Nil(t, NewSESSender(nil, SESConfig{}, nil))

	api := &fakeSES{}
	s := NewSESSender(api, SESConfig{FromEmail: "no-reply@salon.com", ConfigurationSet: "salon-events"}, nil)
	require.NoError(t, s.Send(context.Background(), EmailMessage{
		To: "a@x.com", Subject: "Hi", Text: "text", HTML: "<p>x</p>",
		Category: CategoryAcceptance, BookingID: 4,
	}))

	assert.Equal(t, "Salon <no-reply@salon.com>", aws.ToString(api.input.FromEmailAddress))
	assert.Equal(t, []string{"a@x.com"}, api.input.Destination.ToAddresses)
	assert.NotNil(t, api.input.Content.Simple.Body.Html)
	assert.Equal(t, "salon-events", aws.ToString(api.input.ConfigurationSetName))
	require.Len(t, api.input.EmailTags, 2)
	assert.Equal(t, "booking_id", aws.ToString(api.input.EmailTags[0].Name))
	assert.Equal(t, "4", aws.ToString(api.input.EmailTags[0].Value))

	api.err = errors.New("throttled")
	assert.Error(t, s.Send(context.Background(), EmailMessage{To: "a@x.com", Subject: "Hi"}))
}

func TestMessageValidation(t *testing.T) {
	stub := NewStubEmailSender(nil)
	assert.ErrorIs(t, stub.Send(context.Background(), EmailMessage{Subject: "Hi"}), ErrNoRecipient)
	assert.Error(t, stub.Send(context.Background(), EmailMessage{To: "a@x.com"}))

	api := &fakeSES{}
	s := NewSESSender(api, SESConfig{FromEmail: "no-reply@salon.com"}, nil)
	assert.ErrorIs(t, s.Send(context.Background(), EmailMessage{Subject: "Hi"}), ErrNoRecipient)
	assert.Nil(t, api.input)
}

func TestSendAssignmentEmail(t *testing.T) {
	rec := &recordingSender{}
	m := NewAssignmentMailer(rec, "", nil)
	expires := time.Date(2024, 6, 10, 16, 0, 0, 0, time.UTC)

	err := m.SendAssignmentEmail(context.Background(), "a@x.com", BookingSummary{
		BookingID:   1,
		ServiceName: "Manicure",
		ClientName:  "Ana <script>",
		StartsAt:    "2024-06-10 10:00",
	}, "https://salon.example.com/api/public/invitations/tok/accept", expires)
	require.NoError(t, err)

	require.Len(t, rec.sent, 1)
	msg := rec.sent[0]
	assert.Equal(t, "a@x.com", msg.To)
	assert.Contains(t, msg.Subject, "Manicure")
	assert.Contains(t, msg.Text, "/invitations/tok/accept")
	assert.Contains(t, msg.Text, "2024-06-10 16:00 UTC")
	assert.Equal(t, CategoryInvitation, msg.Category)
	assert.Equal(t, uint(1), msg.BookingID)
	assert.NotContains(t, msg.HTML, "<script>")
}

func TestSendAcceptanceEmailNotifiesAdmin(t *testing.T) {
	rec := &recordingSender{}
	m := NewAssignmentMailer(rec, "owner@salon.com", nil)

	require.NoError(t, m.SendAcceptanceEmail(context.Background(), "a@x.com", BookingSummary{BookingID: 3, ServiceName: "Manicure"}))
	require.Len(t, rec.sent, 2)
	assert.Equal(t, "a@x.com", rec.sent[0].To)
	assert.Equal(t, "owner@salon.com", rec.sent[1].To)
	assert.Equal(t, CategoryAdminNotice, rec.sent[1].Category)
}

func TestStubSender(t *testing.T) {
	assert.NoError(t, NewStubEmailSender(nil).Send(context.Background(), EmailMessage{To: "a@x.com", Subject: "Hi"}))
}

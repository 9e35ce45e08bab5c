package assignment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/events"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/logging"
	"github.com/BruksfildServices01/salon-scheduler/internal/metrics"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/notify"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

// Mailer is the notification dispatcher contract.
type Mailer interface {
	SendAssignmentEmail(ctx context.Context, to string, summary notify.BookingSummary, acceptURL string, expiresAt time.Time) error
	SendAcceptanceEmail(ctx context.Context, to string, summary notify.BookingSummary) error
}

type Deps struct {
	Repo    domain.Repository
	Mailer  Mailer
	Audit   *audit.Dispatcher
	Events  events.Publisher
	Metrics *metrics.EngineMetrics
	Logger  *zap.Logger
	Zone    timezone.Zone
	Now     func() time.Time

	// PublicBaseURL prefixes accept links, e.g. https://api.salon.com
	PublicBaseURL string
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Deps) log() *zap.Logger {
	return logging.OrNop(d.Logger)
}

func (d Deps) acceptURL(token string) string {
	return d.PublicBaseURL + "/api/public/invitations/" + token + "/accept"
}

func (d Deps) summary(b *models.Booking) notify.BookingSummary {
	return notify.BookingSummary{
		BookingID:   b.ID,
		ServiceName: b.Service.Name,
		ClientName:  b.ClientName,
		StartsAt:    d.Zone.In(b.StartTime).Format("2006-01-02 15:04"),
	}
}

func (d Deps) publish(ctx context.Context, key string, a *models.Assignment, status, actor string) {
	if d.Events == nil {
		return
	}
	err := d.Events.PublishJSON(ctx, key, events.BookingEvent{
		BookingID:    a.BookingID,
		Status:       status,
		AssignmentID: a.ID,
		Email:        a.Email,
		Actor:        actor,
		At:           d.now(),
	})
	if err != nil {
		d.log().Warn("publish invitation event failed", zap.String("key", key), zap.Uint("assignment_id", a.ID), zap.Error(err))
	}
}

func (d Deps) audit(actor, action string, a *models.Assignment) {
	d.Audit.Dispatch(audit.Event{
		ActorEmail: actor,
		Action:     action,
		Entity:     "assignment",
		EntityID:   &a.ID,
		Metadata:   map[string]any{"booking_id": a.BookingID, "email": a.Email},
	})
}

func notFound(err error, code string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.ErrNotFound(code)
	}
	return err
}

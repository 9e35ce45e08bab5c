package booking

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
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

// Deps bundles what every booking use case shares.
type Deps struct {
	Repo    domain.Repository
	Audit   *audit.Dispatcher
	Events  events.Publisher
	Metrics *metrics.EngineMetrics
	Logger  *zap.Logger
	Zone    timezone.Zone
	Now     func() time.Time
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

func (d Deps) publish(ctx context.Context, key string, b *models.Booking, actor string) {
	if d.Events == nil {
		return
	}
	err := d.Events.PublishJSON(ctx, key, events.BookingEvent{
		BookingID: b.ID,
		Status:    b.Status,
		Actor:     actor,
		At:        d.now(),
	})
	if err != nil {
		d.log().Warn("publish booking event failed", zap.String("key", key), zap.Uint("booking_id", b.ID), zap.Error(err))
	}
}

func (d Deps) audit(actor, action string, b *models.Booking, meta any) {
	d.Audit.Dispatch(audit.Event{
		ActorEmail: actor,
		Action:     action,
		Entity:     "booking",
		EntityID:   &b.ID,
		Metadata:   meta,
	})
}

// notFound converts a missing row into the business error for code.
func notFound(err error, code string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.ErrNotFound(code)
	}
	return err
}

package assignment

import (
	"context"
	"time"

	"go.uber.org/zap"

	domainassignment "github.com/BruksfildServices01/salon-scheduler/internal/domain/assignment"
	"github.com/BruksfildServices01/salon-scheduler/internal/events"
)

// Elector decides which replica runs a sweep tick.
type Elector interface {
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

const (
	sweepLockKey   = "salon:invitation-sweep"
	sweepBatchSize = 200
)

// ExpirySweeper periodically expires pending invitations past their window.
// Accept checks expiry on its own, so the sweep only keeps stored state tidy.
type ExpirySweeper struct {
	Deps
	elector  Elector
	interval time.Duration
}

func NewExpirySweeper(d Deps, elector Elector) *ExpirySweeper {
	return &ExpirySweeper{
		Deps:     d,
		elector:  elector,
		interval: 5 * time.Minute,
	}
}

func (w *ExpirySweeper) WithInterval(interval time.Duration) *ExpirySweeper {
	if interval > 0 {
		w.interval = interval
	}
	return w
}

// Start blocks until ctx is canceled.
func (w *ExpirySweeper) Start(ctx context.Context) {
	w.log().Info("starting invitation expiry sweeper", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log().Info("invitation expiry sweeper shutting down")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *ExpirySweeper) tick(ctx context.Context) {
	if _, err := w.RunOnce(ctx); err != nil {
		w.log().Error("invitation sweep failed", zap.Error(err))
	}
}

// RunOnce performs one sweep and returns how many invitations it expired.
func (w *ExpirySweeper) RunOnce(ctx context.Context) (int, error) {
	if w.elector != nil {
		ok, err := w.elector.TryAcquire(ctx, sweepLockKey, w.interval)
		if err != nil {
			return 0, err
		}
		if !ok {
			w.log().Debug("invitation sweep held by another replica")
			return 0, nil
		}
		defer func() {
			if err := w.elector.Release(context.Background(), sweepLockKey); err != nil {
				w.log().Warn("release sweep lock failed", zap.Error(err))
			}
		}()
	}

	now := w.now()
	expired := 0
	for {
		batch, err := w.Repo.ListExpiredPending(ctx, now, sweepBatchSize)
		if err != nil {
			return expired, err
		}
		if len(batch) == 0 {
			break
		}

		for i := range batch {
			a := &batch[i]
			changed, err := w.Repo.TransitionAssignment(ctx, a.ID,
				string(domainassignment.StatusPending), string(domainassignment.StatusExpired), now)
			if err != nil {
				return expired, err
			}
			if !changed {
				continue
			}
			expired++
			a.Status = string(domainassignment.StatusExpired)
			w.publish(ctx, events.InvitationExpired, a, "", "sweeper")
		}

		if len(batch) < sweepBatchSize {
			break
		}
	}

	if expired > 0 {
		w.log().Info("expired pending invitations", zap.Int("count", expired))
	}
	w.Metrics.ObserveSweep(expired)
	return expired, nil
}

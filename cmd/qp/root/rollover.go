package root

import (
	"context"
	"time"

	"go.uber.org/zap"

	"questpet/internal/engine"
)

type dailyResetter interface {
	Now() time.Time
	Location() *time.Location
	ResetDailyProgress()
}

// rollover clears the completed-today flag at each local midnight.
type rollover struct {
	svc   dailyResetter
	log   *zap.Logger
	after func(time.Duration) <-chan time.Time
}

func newRollover(svc dailyResetter, log *zap.Logger) *rollover {
	return &rollover{svc: svc, log: log, after: time.After}
}

func (r *rollover) Run(ctx context.Context) {
	for {
		now := r.svc.Now()
		next := engine.NextMidnight(now, r.svc.Location())
		select {
		case <-ctx.Done():
			return
		case <-r.after(next.Sub(now)):
			r.svc.ResetDailyProgress()
			r.log.Info("daily progress reset", zap.Time("midnight", next))
		}
	}
}

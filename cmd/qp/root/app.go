package root

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"questpet/internal/config"
	"questpet/internal/engine"
	"questpet/internal/logging"
	"questpet/internal/storage"
)

type app struct {
	cfg config.Config
	log *zap.Logger
	db  *sqlx.DB
	svc *engine.Service
}

// openApp loads configuration, builds the logger and wires the service over an
// in-memory archive. close shuts the scheduler down before the database.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)

	db, err := storage.Open(ctx, storage.MemoryDSN)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("open archive: %w", err)
	}

	svc := engine.NewService(db, engine.Config{
		StartingCoins: cfg.StartingCoins,
		TickInterval:  cfg.TickInterval,
		EventBuffer:   cfg.EventBuffer,
		Logger:        log,
	})
	return &app{cfg: cfg, log: log, db: db, svc: svc}, nil
}

// start runs the scheduler and, when enabled, the midnight rollover until ctx ends.
func (a *app) start(ctx context.Context) error {
	if err := a.svc.Start(ctx); err != nil {
		return err
	}
	if a.cfg.DailyRollover {
		r := newRollover(a.svc, a.log.Named("rollover"))
		go r.Run(ctx)
	}
	return nil
}

func (a *app) close() {
	a.svc.Shutdown()
	_ = a.db.Close()
	_ = a.log.Sync()
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/otpmirror/pkg/config"
	"github.com/dmitrymomot/otpmirror/pkg/kvstore"
	"github.com/dmitrymomot/otpmirror/pkg/link"
	"github.com/dmitrymomot/otpmirror/pkg/logger"
	"github.com/dmitrymomot/otpmirror/pkg/redis"
	"github.com/dmitrymomot/otpmirror/pkg/sqlite"
)

type app struct {
	cfg    config.Node
	log    *slog.Logger
	store  kvstore.Store
	health []func(context.Context) error
	closer func() error
}

func newApp(ctx context.Context, envFile string) (*app, error) {
	if envFile != "" {
		if err := config.LoadEnv(envFile); err != nil {
			return nil, err
		}
	}

	var cfg config.Node
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.New(
		logger.WithEnvironment(logger.ParseEnvironment(cfg.Env), "otpmirror"),
		logger.WithLevelName(cfg.LogLevel),
		logger.WithContextExtractors(link.RequestIDExtractor()),
	)
	logger.SetAsDefault(log)

	a := &app{cfg: cfg, log: log}
	if err := a.openStore(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	switch a.cfg.Store {
	case config.StoreSQLite:
		db, err := sqlite.Open(ctx, a.cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("open sqlite store: %w", err)
		}
		a.store = sqlite.NewStore(db)
		a.health = append(a.health, db.Healthcheck())
		a.closer = db.Close

	case config.StoreRedis:
		var rcfg redis.Config
		if err := config.Load(&rcfg); err != nil {
			return err
		}
		client, err := redis.Connect(ctx, rcfg)
		if err != nil {
			return err
		}
		storage := redis.NewStorageWithConfig(client, rcfg)
		a.store = storage
		a.health = append(a.health, storage.Healthcheck())
		a.closer = storage.Close

	default:
		a.store = kvstore.NewMemory()
	}

	a.log.DebugContext(ctx, "store ready", slog.String("driver", string(a.cfg.Store)))
	return nil
}

func (a *app) Close() {
	if a.closer == nil {
		return
	}
	if err := a.closer(); err != nil && !errors.Is(err, context.Canceled) {
		a.log.Warn("failed to close store", logger.Error(err))
	}
}

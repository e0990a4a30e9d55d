package controllers

import (
	"context"
	"fmt"

	"parley/pkg/config"
	"parley/pkg/events"
	"parley/pkg/logger"
	"parley/pkg/store"
)

// InitWidget builds the widget controller from settings: the
// persistence backend comes from `persistence` / `persistence_type`,
// the stream endpoint from `sse.endpoint`.
func InitWidget(ctx context.Context, cfg *config.Settings, bus *events.Bus) (*WidgetController, error) {
	log := logger.WithComponent("controller_init")

	kv, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open widget store: %w", err)
	}

	log.Debug("Widget store ready",
		"persistence", cfg.Persistence,
		"type", cfg.PersistenceType)

	return NewWidgetController(ctx, Options{
		Endpoint:      cfg.SSE.Endpoint,
		Store:         kv,
		Bus:           bus,
		AutoCollapse:  cfg.Thinking.AutoCollapse,
		CollapseDelay: cfg.Thinking.CollapseDelay,
	})
}

// OpenStore picks the KV backend from the persistence settings. With
// persistence off, widget state lives and dies with the process.
func OpenStore(ctx context.Context, cfg *config.Settings) (store.KV, error) {
	if !cfg.Persistence {
		return store.NewMemory(), nil
	}

	switch cfg.PersistenceType {
	case "", "local":
		return store.NewFile(cfg.History.File), nil
	case "session", "memory":
		return store.NewMemory(), nil
	case "redis":
		return store.NewRedis(ctx, cfg.Redis.URL)
	default:
		return nil, fmt.Errorf("unknown persistence type: %q", cfg.PersistenceType)
	}
}

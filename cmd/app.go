package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"parley/pkg/config"
	"parley/pkg/controllers"
	"parley/pkg/events"
	"parley/pkg/logger"
	"parley/pkg/tui"
)

// runWidget wires the full client: persistence, event bus, widget
// controller and the terminal app, then blocks until the app exits.
func runWidget(ctx context.Context) error {
	log := logger.WithComponent("app")
	cfg := config.Get()

	log.Info("Widget starting",
		"endpoint", cfg.SSE.Endpoint,
		"persistence", cfg.Persistence)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	bus := events.NewBus()
	defer bus.Close()

	ctrl, err := controllers.InitWidget(ctx, cfg, bus)
	if err != nil {
		return fmt.Errorf("failed to initialize widget controller: %w", err)
	}
	defer ctrl.Close()

	app, err := tui.NewApp(ctrl, bus, cfg)
	if err != nil {
		return fmt.Errorf("failed to create terminal app: %w", err)
	}

	if err := app.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("terminal app error: %w", err)
	}

	log.Info("Widget shutting down")
	return nil
}

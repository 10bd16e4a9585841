package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alkran93/Project-BICPV-sub001/internal/config"
	"github.com/Alkran93/Project-BICPV-sub001/internal/logging"
	"github.com/Alkran93/Project-BICPV-sub001/internal/mqtt"
	"github.com/Alkran93/Project-BICPV-sub001/internal/simulator"
)

const appName = "simulator"

// Default version is "dev" if not set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.LoadSimulatorFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Common, version, appName)
	slog.SetDefault(logger)

	slog.Info("starting",
		"app", appName,
		"version", version,
		"facade_id", cfg.FacadeID,
		"facade_type", cfg.FacadeType,
		"device_id", cfg.DeviceID,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run failed", "err", err)
		os.Exit(1)
	}

	slog.Info("shutting down")
}

func run(ctx context.Context, cfg config.Simulator, logger *slog.Logger) error {
	client := mqtt.NewClient(cfg.MQTT, logger)

	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	err := client.Connect(connectCtx)
	connectCancel()
	if err != nil {
		return err
	}
	defer client.Disconnect()

	gen := simulator.NewGenerator(cfg.FacadeID, cfg.DeviceID, cfg.FacadeType)
	runner := simulator.NewRunner(gen, client, logger, cfg.PublishInterval)

	slog.Info("publishing", "topic", runner.Topic(), "interval", cfg.PublishInterval)
	return runner.Run(ctx)
}

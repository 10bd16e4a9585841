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

	"github.com/Alkran93/Project-BICPV-sub001/internal/alerts"
	"github.com/Alkran93/Project-BICPV-sub001/internal/config"
	"github.com/Alkran93/Project-BICPV-sub001/internal/db"
	"github.com/Alkran93/Project-BICPV-sub001/internal/logging"
	"github.com/Alkran93/Project-BICPV-sub001/internal/migrate"
	"github.com/Alkran93/Project-BICPV-sub001/internal/mqtt"
)

const appName = "alertmon"

// Default version is "dev" if not set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.LoadAlertMonitorFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Common, version, appName)
	slog.SetDefault(logger)

	slog.Info("starting",
		"app", appName,
		"version", version,
		"env", cfg.AppEnv,
		"log_level", cfg.LogLevel.String(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run failed", "err", err)
		os.Exit(1)
	}

	slog.Info("shutting down")
}

func run(ctx context.Context, cfg config.AlertMonitor, logger *slog.Logger) error {
	slog.Info("config loaded",
		"mqttBroker", cfg.Broker,
		"mqttPort", cfg.Port,
		"mqttTopic", cfg.Topic,
		"sqlitePath", cfg.Path,
		"inactiveAfter", cfg.InactiveAfter,
		"purgeAfter", cfg.PurgeAfter,
	)

	dbConn, err := db.Open(cfg.SQLite)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(dbConn); closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()

	if err := migrate.Run(dbConn); err != nil {
		return err
	}

	monitor := alerts.NewMonitor(alerts.NewRepository(dbConn), logger, cfg.InactiveAfter, cfg.PurgeAfter)

	// Handler must be set before Connect so the OnConnect subscription
	// already feeds it when the broker replays queued messages.
	client := mqtt.NewClient(cfg.MQTT, logger)
	client.MessageHandler = monitor.HandleMessage

	connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
	err = client.Connect(connectCtx)
	connectCancel()
	if err != nil {
		slog.Warn("mqtt connection failed (retrying in background)", "error", err)
	}
	defer client.Disconnect()

	return monitor.Run(ctx, cfg.InactiveCheckInterval, cfg.PurgeInterval)
}

// Package app boots the dashboard service: alert store, backend client,
// per-facade pollers and the HTTP server.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Alkran93/Project-BICPV-sub001/internal/alerts"
	"github.com/Alkran93/Project-BICPV-sub001/internal/backend"
	"github.com/Alkran93/Project-BICPV-sub001/internal/config"
	"github.com/Alkran93/Project-BICPV-sub001/internal/db"
	"github.com/Alkran93/Project-BICPV-sub001/internal/httpapi"
	"github.com/Alkran93/Project-BICPV-sub001/internal/migrate"
	"github.com/Alkran93/Project-BICPV-sub001/internal/modules/facade"
	"github.com/Alkran93/Project-BICPV-sub001/internal/modules/facade/service"
	facadeviews "github.com/Alkran93/Project-BICPV-sub001/internal/modules/facade/views"
	"github.com/Alkran93/Project-BICPV-sub001/internal/poller"
)

// viewPoller is satisfied by poller.Poller for every view type.
type viewPoller interface {
	Start(ctx context.Context)
	Stop()
}

func Run(ctx context.Context, cfg config.Monitor) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"backendURL", cfg.BackendURL,
		"facadeIDs", cfg.FacadeIDs,
		"sqliteDriver", cfg.Driver,
		"sqlitePath", cfg.Path,
		"efficiencyPollInterval", cfg.EfficiencyPollInterval,
		"cyclePollInterval", cfg.CyclePollInterval,
		"realtimePollInterval", cfg.RealtimePollInterval,
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

	var ok int
	if err := dbConn.QueryRow(`SELECT 1`).Scan(&ok); err != nil {
		return err
	}
	if ok != 1 {
		return errors.New("database connection failed")
	}
	slog.Info("database connection successful")

	if err := facadeviews.LoadTemplates(); err != nil {
		return err
	}

	client := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout)
	svc := service.NewService(client, slog.Default())
	alertRepo := alerts.NewRepository(dbConn)

	// The dashboard shows a rolling day of backend data.
	window := func() backend.TimeWindow {
		return backend.TimeWindow{Start: time.Now().Add(-24 * time.Hour)}
	}

	dashboards := make([]*service.Dashboard, 0, len(cfg.FacadeIDs))
	var pollers []viewPoller
	for _, facadeID := range cfg.FacadeIDs {
		d := service.NewDashboard(facadeID)
		dashboards = append(dashboards, d)

		pollers = append(pollers,
			poller.New(cfg.EfficiencyPollInterval, svc.FetchEfficiency(facadeID, window), d.Efficiency.Apply),
			poller.New(cfg.CyclePollInterval, svc.FetchCycle(facadeID, window), d.Cycle.Apply),
			poller.New(cfg.RealtimePollInterval, svc.FetchRealtime(facadeID), d.Realtime.Apply),
		)
	}

	mux := httpapi.NewMux(dbConn)
	facade.RegisterFeature(mux, svc, alertRepo, dashboards)

	for _, p := range pollers {
		p.Start(ctx)
	}

	srv := httpapi.NewServer(cfg, mux)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("stopping pollers")
	for _, p := range pollers {
		p.Stop()
	}

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}

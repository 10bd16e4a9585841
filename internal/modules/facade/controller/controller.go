package controller

import (
	"context"
	"net/http"

	"github.com/Alkran93/Project-BICPV-sub001/internal/alerts"
	"github.com/Alkran93/Project-BICPV-sub001/internal/backend"
	"github.com/Alkran93/Project-BICPV-sub001/internal/modules/facade/service"
	"github.com/Alkran93/Project-BICPV-sub001/internal/stats"
)

// DashboardService is the slice of the facade service the handlers use
// for on-demand API fetches.
type DashboardService interface {
	Efficiency(ctx context.Context, facadeID string, w backend.TimeWindow) (stats.EfficiencyMetrics, error)
	CycleStatistics(ctx context.Context, facadeID string, w backend.TimeWindow) (service.CycleReport, error)
	Realtime(ctx context.Context, facadeID string) ([]backend.RealtimeReading, error)
}

// AlertStore lists stored alerts for the dashboard.
type AlertStore interface {
	Recent(limit int) ([]alerts.Alert, error)
}

type FacadeController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type facadeControllerImpl struct {
	service    DashboardService
	alerts     AlertStore
	dashboards []*service.Dashboard
}

// NewFacadeController builds the controller over the polled dashboards.
// The dashboards slice carries the facades in display order; partials
// fall back to the first one when no facade_id is given.
func NewFacadeController(svc DashboardService, alertStore AlertStore, dashboards []*service.Dashboard) FacadeController {
	return &facadeControllerImpl{service: svc, alerts: alertStore, dashboards: dashboards}
}

func (c *facadeControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /", c.handleDashboard)
	mux.HandleFunc("GET /partials/efficiency", c.handleEfficiencyPartial)
	mux.HandleFunc("GET /partials/cycle", c.handleCyclePartial)
	mux.HandleFunc("GET /partials/realtime", c.handleRealtimePartial)
	mux.HandleFunc("GET /partials/alerts", c.handleAlertsPartial)
	mux.HandleFunc("GET /api/v1/facades/{id}/efficiency", c.handleEfficiencyAPI)
	mux.HandleFunc("GET /api/v1/facades/{id}/cycle", c.handleCycleAPI)
	mux.HandleFunc("GET /api/v1/facades/{id}/realtime", c.handleRealtimeAPI)
	mux.HandleFunc("GET /api/v1/alerts", c.handleAlertsAPI)
}

// resolveDashboard picks the polled dashboard for the requested facade,
// defaulting to the first configured one.
func (c *facadeControllerImpl) resolveDashboard(facadeID string) *service.Dashboard {
	if len(c.dashboards) == 0 {
		return nil
	}
	for _, d := range c.dashboards {
		if d.FacadeID == facadeID {
			return d
		}
	}
	return c.dashboards[0]
}

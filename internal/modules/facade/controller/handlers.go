package controller

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Alkran93/Project-BICPV-sub001/internal/backend"
	"github.com/Alkran93/Project-BICPV-sub001/internal/modules/facade/service"
	"github.com/Alkran93/Project-BICPV-sub001/internal/modules/facade/views"
	"github.com/Alkran93/Project-BICPV-sub001/internal/utils"
)

func (c *facadeControllerImpl) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	opts := make([]views.FacadeOption, 0, len(c.dashboards))
	for _, d := range c.dashboards {
		opts = append(opts, views.FacadeOption{ID: d.FacadeID, Label: "Facade " + d.FacadeID})
	}
	selectedID := r.URL.Query().Get("facade_id")
	if selectedID == "" && len(opts) > 0 {
		selectedID = opts[0].ID
	}

	data := views.DashboardData{Facades: opts, SelectedFacadeID: selectedID}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.RenderDashboard(w, data); err != nil {
		slog.Error("dashboard template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
	}
}

func (c *facadeControllerImpl) handleEfficiencyPartial(w http.ResponseWriter, r *http.Request) {
	d := c.resolveDashboard(r.URL.Query().Get("facade_id"))
	if d == nil {
		utils.WriteError(w, http.StatusInternalServerError, "no facades configured")
		return
	}

	view, err, ok := d.Efficiency.Get()
	data := views.EfficiencyData{FacadeID: d.FacadeID, HasData: ok}
	if err != nil {
		data.Error = "efficiency data unavailable"
	}
	if ok {
		m := view.Metrics
		data.RefrigeratedTemp = m.RefrigeratedTemp
		data.NonRefrigeratedTemp = m.NonRefrigeratedTemp
		data.Reduction = m.Reduction
		data.ImprovementPct = m.EfficiencyImprovementPct
		data.InsufficientData = m.InsufficientData
		data.UpdatedAt = formatUpdated(d.Efficiency.UpdatedAt())
	}

	c.writePartial(w, "efficiency", func(buf *bytes.Buffer) error {
		return views.RenderEfficiencyPartial(buf, data)
	})
}

func (c *facadeControllerImpl) handleCyclePartial(w http.ResponseWriter, r *http.Request) {
	d := c.resolveDashboard(r.URL.Query().Get("facade_id"))
	if d == nil {
		utils.WriteError(w, http.StatusInternalServerError, "no facades configured")
		return
	}

	report, err, ok := d.Cycle.Get()
	data := views.CycleData{FacadeID: d.FacadeID}
	switch {
	case errors.Is(err, backend.ErrNotApplicable):
		data.NotApplicable = true
	case err != nil:
		data.Error = "cycle data unavailable"
	case ok:
		data.Rows = cycleRows(report)
		data.Summary = cycleSummaryRow(report)
		data.UpdatedAt = formatUpdated(d.Cycle.UpdatedAt())
	}

	c.writePartial(w, "cycle", func(buf *bytes.Buffer) error {
		return views.RenderCyclePartial(buf, data)
	})
}

func (c *facadeControllerImpl) handleRealtimePartial(w http.ResponseWriter, r *http.Request) {
	d := c.resolveDashboard(r.URL.Query().Get("facade_id"))
	if d == nil {
		utils.WriteError(w, http.StatusInternalServerError, "no facades configured")
		return
	}

	view, err, ok := d.Realtime.Get()
	data := views.RealtimeData{FacadeID: d.FacadeID}
	if err != nil {
		data.Error = "realtime data unavailable"
	}
	if ok {
		data.Readings = realtimeRows(view.Readings)
		data.UpdatedAt = formatUpdated(d.Realtime.UpdatedAt())
	}

	c.writePartial(w, "realtime", func(buf *bytes.Buffer) error {
		return views.RenderRealtimePartial(buf, data)
	})
}

func (c *facadeControllerImpl) handleAlertsPartial(w http.ResponseWriter, r *http.Request) {
	data := views.AlertsData{}
	recent, err := c.alerts.Recent(alertsPartialLimit)
	if err != nil {
		slog.Error("alerts partial: list recent failed", "error", err)
		data.Error = "alerts unavailable"
	} else {
		data.Alerts = alertRows(recent)
	}

	c.writePartial(w, "alerts", func(buf *bytes.Buffer) error {
		return views.RenderAlertsPartial(buf, data)
	})
}

// writePartial renders into a buffer first so a template failure can
// still produce a clean error response.
func (c *facadeControllerImpl) writePartial(w http.ResponseWriter, name string, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		slog.Error("partial render failed", "partial", name, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("partial write failed", "partial", name, "error", err)
	}
}

func (c *facadeControllerImpl) handleEfficiencyAPI(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		utils.WriteError(w, http.StatusBadRequest, "missing facade id")
		return
	}
	window, err := parseWindowQuery(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	metrics, err := c.service.Efficiency(r.Context(), id, window)
	if err != nil {
		if errors.Is(err, service.ErrNoFacadeData) {
			utils.WriteError(w, http.StatusBadGateway, err.Error())
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, metrics)
}

func (c *facadeControllerImpl) handleCycleAPI(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		utils.WriteError(w, http.StatusBadRequest, "missing facade id")
		return
	}
	window, err := parseWindowQuery(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := c.service.CycleStatistics(r.Context(), id, window)
	if err != nil {
		switch {
		case errors.Is(err, backend.ErrNotApplicable):
			utils.WriteError(w, http.StatusUnprocessableEntity, "facade has no refrigeration subsystem")
		case errors.Is(err, backend.ErrMissingFacadeID):
			utils.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			utils.WriteError(w, http.StatusBadGateway, err.Error())
		}
		return
	}
	utils.WriteJSON(w, http.StatusOK, report)
}

func (c *facadeControllerImpl) handleRealtimeAPI(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		utils.WriteError(w, http.StatusBadRequest, "missing facade id")
		return
	}

	readings, err := c.service.Realtime(r.Context(), id)
	if err != nil {
		utils.WriteError(w, http.StatusBadGateway, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, service.RealtimeView{FacadeID: id, Readings: readings})
}

func (c *facadeControllerImpl) handleAlertsAPI(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimitQuery(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	recent, err := c.alerts.Recent(limit)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, recent)
}

package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Alkran93/Project-BICPV-sub001/internal/alerts"
	"github.com/Alkran93/Project-BICPV-sub001/internal/backend"
	"github.com/Alkran93/Project-BICPV-sub001/internal/modules/facade/service"
	"github.com/Alkran93/Project-BICPV-sub001/internal/modules/facade/views"
	"github.com/Alkran93/Project-BICPV-sub001/internal/stats"
)

type mockService struct {
	efficiency    stats.EfficiencyMetrics
	efficiencyErr error

	cycle    service.CycleReport
	cycleErr error

	realtime    []backend.RealtimeReading
	realtimeErr error
}

func (m *mockService) Efficiency(_ context.Context, _ string, _ backend.TimeWindow) (stats.EfficiencyMetrics, error) {
	return m.efficiency, m.efficiencyErr
}

func (m *mockService) CycleStatistics(_ context.Context, _ string, _ backend.TimeWindow) (service.CycleReport, error) {
	return m.cycle, m.cycleErr
}

func (m *mockService) Realtime(_ context.Context, _ string) ([]backend.RealtimeReading, error) {
	return m.realtime, m.realtimeErr
}

type mockAlertStore struct {
	alerts []alerts.Alert
	err    error
}

func (m *mockAlertStore) Recent(limit int) ([]alerts.Alert, error) {
	return m.alerts, m.err
}

func newTestController(svc DashboardService, store AlertStore, dashboards ...*service.Dashboard) *facadeControllerImpl {
	if len(dashboards) == 0 {
		dashboards = []*service.Dashboard{service.NewDashboard("1"), service.NewDashboard("2")}
	}
	return NewFacadeController(svc, store, dashboards).(*facadeControllerImpl)
}

func mustLoadTemplates(t *testing.T) {
	t.Helper()
	if err := views.LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates(): %v", err)
	}
}

func fp(v float64) *float64 { return &v }

func TestHandleDashboard(t *testing.T) {
	mustLoadTemplates(t)
	ctrl := newTestController(&mockService{}, &mockAlertStore{})

	t.Run("renders facade options", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		ctrl.handleDashboard(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
		}
		if !strings.Contains(rec.Body.String(), "Facade 1") {
			t.Errorf("body missing facade option; got %q", rec.Body.String())
		}
	})

	t.Run("unknown path is 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/nope", nil)
		rec := httptest.NewRecorder()

		ctrl.handleDashboard(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d; want %d", rec.Code, http.StatusNotFound)
		}
	})
}

func TestHandleEfficiencyPartial(t *testing.T) {
	mustLoadTemplates(t)

	t.Run("renders polled metrics", func(t *testing.T) {
		d := service.NewDashboard("2")
		d.Efficiency.Apply(service.EfficiencyView{
			FacadeID: "2",
			Metrics:  stats.Efficiency(18, 30),
		}, nil)
		ctrl := newTestController(&mockService{}, &mockAlertStore{}, d)

		req := httptest.NewRequest(http.MethodGet, "/partials/efficiency?facade_id=2", nil)
		rec := httptest.NewRecorder()
		ctrl.handleEfficiencyPartial(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
		}
		if !strings.Contains(rec.Body.String(), "40.0%") {
			t.Errorf("body missing percentage; got %q", rec.Body.String())
		}
	})

	t.Run("failed poll shows error, not stale data", func(t *testing.T) {
		d := service.NewDashboard("2")
		d.Efficiency.Apply(service.EfficiencyView{FacadeID: "2", Metrics: stats.Efficiency(18, 30)}, nil)
		d.Efficiency.Apply(service.EfficiencyView{}, errors.New("backend down"))
		ctrl := newTestController(&mockService{}, &mockAlertStore{}, d)

		req := httptest.NewRequest(http.MethodGet, "/partials/efficiency", nil)
		rec := httptest.NewRecorder()
		ctrl.handleEfficiencyPartial(rec, req)

		body := rec.Body.String()
		if !strings.Contains(body, "unavailable") {
			t.Errorf("body missing error; got %q", body)
		}
		if strings.Contains(body, "40.0%") {
			t.Errorf("stale metrics rendered next to error; got %q", body)
		}
	})
}

func TestHandleCyclePartial_notApplicable(t *testing.T) {
	mustLoadTemplates(t)

	d := service.NewDashboard("1")
	d.Cycle.Apply(service.CycleReport{}, backend.ErrNotApplicable)
	ctrl := newTestController(&mockService{}, &mockAlertStore{}, d)

	req := httptest.NewRequest(http.MethodGet, "/partials/cycle?facade_id=1", nil)
	rec := httptest.NewRecorder()
	ctrl.handleCyclePartial(rec, req)

	if !strings.Contains(rec.Body.String(), "no refrigeration subsystem") {
		t.Errorf("body missing not-applicable message; got %q", rec.Body.String())
	}
}

func TestHandleAlertsPartial(t *testing.T) {
	mustLoadTemplates(t)

	store := &mockAlertStore{alerts: []alerts.Alert{
		{FacadeID: "2", SensorName: "T_SalCompresor", Severity: "critical", Description: "above maximum", CreatedAt: time.Now()},
	}}
	ctrl := newTestController(&mockService{}, store)

	req := httptest.NewRequest(http.MethodGet, "/partials/alerts", nil)
	rec := httptest.NewRecorder()
	ctrl.handleAlertsPartial(rec, req)

	if !strings.Contains(rec.Body.String(), "T_SalCompresor") {
		t.Errorf("body missing alert; got %q", rec.Body.String())
	}
}

func newAPIServer(svc DashboardService, store AlertStore) *httptest.Server {
	mux := http.NewServeMux()
	newTestController(svc, store).RegisterRoutes(mux)
	return httptest.NewServer(mux)
}

func TestHandleEfficiencyAPI(t *testing.T) {
	mustLoadTemplates(t)

	t.Run("returns metrics", func(t *testing.T) {
		srv := newAPIServer(&mockService{efficiency: stats.Efficiency(18, 30)}, &mockAlertStore{})
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/api/v1/facades/2/efficiency")
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d; want %d", resp.StatusCode, http.StatusOK)
		}
		var m stats.EfficiencyMetrics
		if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if m.Reduction != 12 {
			t.Errorf("Reduction = %v; want 12", m.Reduction)
		}
	})

	t.Run("no facade data is 502", func(t *testing.T) {
		srv := newAPIServer(&mockService{efficiencyErr: service.ErrNoFacadeData}, &mockAlertStore{})
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/api/v1/facades/2/efficiency")
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadGateway {
			t.Errorf("status = %d; want %d", resp.StatusCode, http.StatusBadGateway)
		}
	})

	t.Run("bad window is 400", func(t *testing.T) {
		srv := newAPIServer(&mockService{}, &mockAlertStore{})
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/api/v1/facades/2/efficiency?start=yesterday")
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d; want %d", resp.StatusCode, http.StatusBadRequest)
		}
	})
}

func TestHandleCycleAPI(t *testing.T) {
	mustLoadTemplates(t)

	t.Run("not applicable is 422", func(t *testing.T) {
		srv := newAPIServer(&mockService{cycleErr: backend.ErrNotApplicable}, &mockAlertStore{})
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/api/v1/facades/1/cycle")
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Errorf("status = %d; want %d", resp.StatusCode, http.StatusUnprocessableEntity)
		}
		var body struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.Contains(body.Message, "no refrigeration subsystem") {
			t.Errorf("message = %q; want not-applicable text", body.Message)
		}
	})

	t.Run("returns statistics and summary", func(t *testing.T) {
		report := service.CycleReport{
			FacadeID: "2",
			Statistics: []stats.CycleStatistic{
				{CyclePoint: "T_EntCompresor", Avg: 20, Min: 10, Max: 30, SampleCount: 3},
			},
		}
		if summary, ok := stats.Summarize(report.Statistics); ok {
			report.Summary = &summary
		}
		srv := newAPIServer(&mockService{cycle: report}, &mockAlertStore{})
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/api/v1/facades/2/cycle")
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		defer resp.Body.Close()

		var got service.CycleReport
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(got.Statistics) != 1 || got.Summary == nil {
			t.Errorf("got %d statistics, summary %v; want 1 statistic with summary", len(got.Statistics), got.Summary)
		}
	})
}

func TestHandleRealtimeAPI(t *testing.T) {
	mustLoadTemplates(t)

	srv := newAPIServer(&mockService{realtime: []backend.RealtimeReading{
		{Sensor: "Humedad", Value: fp(41), TS: "2024-06-01T10:00:00"},
	}}, &mockAlertStore{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/facades/1/realtime")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	var view service.RealtimeView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.FacadeID != "1" || len(view.Readings) != 1 {
		t.Errorf("view = %+v; want facade 1 with one reading", view)
	}
}

func TestHandleAlertsAPI(t *testing.T) {
	mustLoadTemplates(t)

	t.Run("returns recent alerts", func(t *testing.T) {
		store := &mockAlertStore{alerts: []alerts.Alert{{ID: "a1", SensorName: "Humedad"}}}
		srv := newAPIServer(&mockService{}, store)
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/api/v1/alerts")
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		defer resp.Body.Close()

		var got []alerts.Alert
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(got) != 1 || got[0].ID != "a1" {
			t.Errorf("got = %+v; want the stored alert", got)
		}
	})

	t.Run("invalid limit is 400", func(t *testing.T) {
		srv := newAPIServer(&mockService{}, &mockAlertStore{})
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/api/v1/alerts?limit=0")
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d; want %d", resp.StatusCode, http.StatusBadRequest)
		}
	})
}

func TestParseWindowQuery(t *testing.T) {
	t.Run("start after end rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?start=2024-06-02T00:00:00Z&end=2024-06-01T00:00:00Z", nil)
		if _, err := parseWindowQuery(req); err == nil {
			t.Error("parseWindowQuery() = nil; want error")
		}
	})

	t.Run("absent bounds stay zero", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w, err := parseWindowQuery(req)
		if err != nil {
			t.Fatalf("parseWindowQuery() error = %v", err)
		}
		if !w.Start.IsZero() || !w.End.IsZero() {
			t.Errorf("window = %+v; want zero bounds", w)
		}
	})
}

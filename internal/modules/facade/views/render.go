package views

import (
	"errors"
	"html/template"
	"io"
	"io/fs"
)

var dashboardTmpl *template.Template

// loadTemplatesFromFS loads dashboard templates from the given fs and dir.
// Used by LoadTemplates and by tests to simulate failure scenarios.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	dashboardTmpl, err = template.ParseFS(sub, "*.html", "partials/*.html")
	if err != nil {
		return err
	}
	return nil
}

// LoadTemplates loads embedded dashboard templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// FacadeOption is the view model for a facade in the dashboard selector.
type FacadeOption struct {
	ID    string
	Label string
}

// DashboardData is the view model for the full dashboard page.
type DashboardData struct {
	Facades          []FacadeOption
	SelectedFacadeID string
}

func RenderDashboard(w io.Writer, data DashboardData) error {
	if dashboardTmpl == nil {
		return errors.New("dashboard template not loaded: call views.LoadTemplates during startup")
	}
	return dashboardTmpl.ExecuteTemplate(w, "dashboard.html", data)
}

// EfficiencyData is the view model for the efficiency partial.
type EfficiencyData struct {
	FacadeID            string
	HasData             bool
	RefrigeratedTemp    float64
	NonRefrigeratedTemp float64
	Reduction           float64
	ImprovementPct      float64
	InsufficientData    bool
	Error               string
	UpdatedAt           string
}

// RenderEfficiencyPartial executes only the efficiency partial into w.
// Use for timed fragment refresh.
func RenderEfficiencyPartial(w io.Writer, data EfficiencyData) error {
	if dashboardTmpl == nil {
		return errors.New("dashboard template not loaded: call views.LoadTemplates during startup")
	}
	return dashboardTmpl.ExecuteTemplate(w, "efficiency.html", data)
}

// CycleRow is one reduced cycle-point statistic for display.
type CycleRow struct {
	CyclePoint  string
	Avg         float64
	Min         float64
	Max         float64
	SampleCount int
	RangeStart  string
	RangeEnd    string
}

// CycleSummaryRow aggregates across the displayed rows.
type CycleSummaryRow struct {
	OverallAvg   float64
	OverallMin   float64
	OverallMax   float64
	TotalSamples int
	Hottest      string
	HottestAvg   float64
	Coldest      string
	ColdestAvg   float64
}

// CycleData is the view model for the refrigerant-cycle partial.
type CycleData struct {
	FacadeID      string
	Rows          []CycleRow
	Summary       *CycleSummaryRow
	NotApplicable bool
	Error         string
	UpdatedAt     string
}

func RenderCyclePartial(w io.Writer, data CycleData) error {
	if dashboardTmpl == nil {
		return errors.New("dashboard template not loaded: call views.LoadTemplates during startup")
	}
	return dashboardTmpl.ExecuteTemplate(w, "cycle.html", data)
}

// RealtimeRow is one live sensor reading for display. Value is the
// formatted reading; HasValue is false when the sensor reported null.
type RealtimeRow struct {
	Sensor   string
	Value    string
	HasValue bool
	TS       string
	DeviceID string
}

// RealtimeData is the view model for the realtime partial.
type RealtimeData struct {
	FacadeID  string
	Readings  []RealtimeRow
	Error     string
	UpdatedAt string
}

func RenderRealtimePartial(w io.Writer, data RealtimeData) error {
	if dashboardTmpl == nil {
		return errors.New("dashboard template not loaded: call views.LoadTemplates during startup")
	}
	return dashboardTmpl.ExecuteTemplate(w, "realtime.html", data)
}

// AlertRow is one stored alert for display.
type AlertRow struct {
	FacadeID    string
	SensorName  string
	Severity    string
	Description string
	CreatedAt   string
}

// AlertsData is the view model for the alerts partial.
type AlertsData struct {
	Alerts []AlertRow
	Error  string
}

func RenderAlertsPartial(w io.Writer, data AlertsData) error {
	if dashboardTmpl == nil {
		return errors.New("dashboard template not loaded: call views.LoadTemplates during startup")
	}
	return dashboardTmpl.ExecuteTemplate(w, "alerts.html", data)
}

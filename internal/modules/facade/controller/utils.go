package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Alkran93/Project-BICPV-sub001/internal/alerts"
	"github.com/Alkran93/Project-BICPV-sub001/internal/backend"
	"github.com/Alkran93/Project-BICPV-sub001/internal/modules/facade/service"
	"github.com/Alkran93/Project-BICPV-sub001/internal/modules/facade/views"
)

const alertsPartialLimit = 20

func parseWindowQuery(r *http.Request) (backend.TimeWindow, error) {
	q := r.URL.Query()
	var w backend.TimeWindow
	var err error

	if s := q.Get("start"); s != "" {
		w.Start, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return backend.TimeWindow{}, errors.New("invalid 'start' (expected RFC3339)")
		}
	}
	if s := q.Get("end"); s != "" {
		w.End, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return backend.TimeWindow{}, errors.New("invalid 'end' (expected RFC3339)")
		}
	}
	if !w.Start.IsZero() && !w.End.IsZero() && w.Start.After(w.End) {
		return backend.TimeWindow{}, errors.New("'start' must be <= 'end'")
	}
	return w, nil
}

func parseLimitQuery(r *http.Request) (int, error) {
	limit := 100
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, errors.New("invalid 'limit' (expected integer)")
		}
		if n <= 0 {
			return 0, errors.New("'limit' must be > 0")
		}
		if n > 1000 {
			return 0, errors.New("'limit' must be <= 1000")
		}
		limit = n
	}
	return limit, nil
}

func formatUpdated(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("15:04:05")
}

func cycleRows(report service.CycleReport) []views.CycleRow {
	rows := make([]views.CycleRow, 0, len(report.Statistics))
	for _, s := range report.Statistics {
		rows = append(rows, views.CycleRow{
			CyclePoint:  s.CyclePoint,
			Avg:         s.Avg,
			Min:         s.Min,
			Max:         s.Max,
			SampleCount: s.SampleCount,
			RangeStart:  s.TimestampRange.Start,
			RangeEnd:    s.TimestampRange.End,
		})
	}
	return rows
}

func cycleSummaryRow(report service.CycleReport) *views.CycleSummaryRow {
	if report.Summary == nil {
		return nil
	}
	s := report.Summary
	return &views.CycleSummaryRow{
		OverallAvg:   s.OverallAvg,
		OverallMin:   s.OverallMin,
		OverallMax:   s.OverallMax,
		TotalSamples: s.TotalSamples,
		Hottest:      s.Hottest,
		HottestAvg:   s.HottestAvg,
		Coldest:      s.Coldest,
		ColdestAvg:   s.ColdestAvg,
	}
}

func realtimeRows(readings []backend.RealtimeReading) []views.RealtimeRow {
	rows := make([]views.RealtimeRow, 0, len(readings))
	for _, r := range readings {
		row := views.RealtimeRow{Sensor: r.Sensor, TS: r.TS, DeviceID: r.DeviceID}
		if r.Value != nil {
			row.Value = fmt.Sprintf("%.2f", *r.Value)
			row.HasValue = true
		}
		rows = append(rows, row)
	}
	return rows
}

func alertRows(recent []alerts.Alert) []views.AlertRow {
	rows := make([]views.AlertRow, 0, len(recent))
	for _, a := range recent {
		rows = append(rows, views.AlertRow{
			FacadeID:    a.FacadeID,
			SensorName:  a.SensorName,
			Severity:    a.Severity,
			Description: a.Description,
			CreatedAt:   a.CreatedAt.UTC().Format("2006-01-02 15:04"),
		})
	}
	return rows
}

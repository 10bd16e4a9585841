// Package service orchestrates the backend fetches behind the dashboard:
// the paired facade averages for the efficiency view, the reduced
// refrigerant-cycle statistics and the realtime snapshot.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Alkran93/Project-BICPV-sub001/internal/backend"
	"github.com/Alkran93/Project-BICPV-sub001/internal/stats"
)

// ErrNoFacadeData is returned when neither facade variant produced an
// average, so no efficiency comparison can be shown.
var ErrNoFacadeData = errors.New("no temperature data for either facade")

// BackendClient is the slice of the measurement API the service needs.
type BackendClient interface {
	FacadeAverage(ctx context.Context, facadeID, facadeType string, w backend.TimeWindow) (float64, error)
	RefrigerantCycle(ctx context.Context, facadeID string, w backend.TimeWindow) (backend.CycleData, error)
	Realtime(ctx context.Context, facadeID string) ([]backend.RealtimeReading, error)
}

// CycleReport pairs the per-point statistics with their summary. Summary
// is nil when no point produced a statistic.
type CycleReport struct {
	FacadeID   string                 `json:"facadeId"`
	Statistics []stats.CycleStatistic `json:"statistics"`
	Summary    *stats.CycleSummary    `json:"summary,omitempty"`
}

type Service struct {
	client BackendClient
	logger *slog.Logger
}

func NewService(client BackendClient, logger *slog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// Efficiency fetches both facade-variant averages concurrently and joins
// them. When both lookups fail there is nothing to compare and
// ErrNoFacadeData is returned. When only one fails its side defaults to
// zero so the dashboard still shows the half that worked.
func (s *Service) Efficiency(ctx context.Context, facadeID string, w backend.TimeWindow) (stats.EfficiencyMetrics, error) {
	type result struct {
		avg float64
		err error
	}

	refCh := make(chan result, 1)
	nonRefCh := make(chan result, 1)

	go func() {
		avg, err := s.client.FacadeAverage(ctx, facadeID, backend.FacadeTypeRefrigerated, w)
		refCh <- result{avg: avg, err: err}
	}()
	go func() {
		avg, err := s.client.FacadeAverage(ctx, facadeID, backend.FacadeTypeNonRefrigerated, w)
		nonRefCh <- result{avg: avg, err: err}
	}()

	ref := <-refCh
	nonRef := <-nonRefCh

	if ref.err != nil && nonRef.err != nil {
		s.logger.Error("both facade averages failed",
			"facade_id", facadeID, "refrigerated_error", ref.err, "non_refrigerated_error", nonRef.err)
		return stats.EfficiencyMetrics{}, ErrNoFacadeData
	}
	if ref.err != nil {
		s.logger.Warn("refrigerated average failed, defaulting to zero",
			"facade_id", facadeID, "error", ref.err)
		ref.avg = 0
	}
	if nonRef.err != nil {
		s.logger.Warn("non-refrigerated average failed, defaulting to zero",
			"facade_id", facadeID, "error", nonRef.err)
		nonRef.avg = 0
	}

	return stats.Efficiency(ref.avg, nonRef.avg), nil
}

// CycleStatistics fetches the refrigerant-cycle readings and reduces them.
// backend.ErrNotApplicable passes through untouched so callers can map it
// to the "facade has no refrigeration subsystem" message.
func (s *Service) CycleStatistics(ctx context.Context, facadeID string, w backend.TimeWindow) (CycleReport, error) {
	data, err := s.client.RefrigerantCycle(ctx, facadeID, w)
	if err != nil {
		return CycleReport{}, err
	}

	report := CycleReport{
		FacadeID:   data.FacadeID,
		Statistics: stats.ReduceCycle(data.Points),
	}
	if report.FacadeID == "" {
		report.FacadeID = facadeID
	}
	if summary, ok := stats.Summarize(report.Statistics); ok {
		report.Summary = &summary
	}
	return report, nil
}

// Realtime fetches the live snapshot for one facade.
func (s *Service) Realtime(ctx context.Context, facadeID string) ([]backend.RealtimeReading, error) {
	return s.client.Realtime(ctx, facadeID)
}

package service

import (
	"context"

	"github.com/Alkran93/Project-BICPV-sub001/internal/backend"
	"github.com/Alkran93/Project-BICPV-sub001/internal/stats"
)

// EfficiencyView is the polled efficiency comparison for one facade.
type EfficiencyView struct {
	FacadeID string                  `json:"facadeId"`
	Metrics  stats.EfficiencyMetrics `json:"metrics"`
}

// RealtimeView is the polled live snapshot for one facade.
type RealtimeView struct {
	FacadeID string                    `json:"facadeId"`
	Readings []backend.RealtimeReading `json:"readings"`
}

// FetchEfficiency adapts Efficiency to a poller fetch callback.
func (s *Service) FetchEfficiency(facadeID string, window func() backend.TimeWindow) func(ctx context.Context) (EfficiencyView, error) {
	return func(ctx context.Context) (EfficiencyView, error) {
		metrics, err := s.Efficiency(ctx, facadeID, window())
		if err != nil {
			return EfficiencyView{}, err
		}
		return EfficiencyView{FacadeID: facadeID, Metrics: metrics}, nil
	}
}

// FetchCycle adapts CycleStatistics to a poller fetch callback.
func (s *Service) FetchCycle(facadeID string, window func() backend.TimeWindow) func(ctx context.Context) (CycleReport, error) {
	return func(ctx context.Context) (CycleReport, error) {
		return s.CycleStatistics(ctx, facadeID, window())
	}
}

// FetchRealtime adapts Realtime to a poller fetch callback.
func (s *Service) FetchRealtime(facadeID string) func(ctx context.Context) (RealtimeView, error) {
	return func(ctx context.Context) (RealtimeView, error) {
		readings, err := s.Realtime(ctx, facadeID)
		if err != nil {
			return RealtimeView{}, err
		}
		return RealtimeView{FacadeID: facadeID, Readings: readings}, nil
	}
}

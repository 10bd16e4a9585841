package alerts

import (
	"context"
	"log/slog"
	"time"

	"github.com/Alkran93/Project-BICPV-sub001/internal/telemetry"
)

// Monitor wires the MQTT sensor stream into rule evaluation and the
// alert store.
type Monitor struct {
	repo    Repository
	tracker *Tracker
	logger  *slog.Logger

	inactiveAfter time.Duration
	purgeAfter    time.Duration

	now func() time.Time
}

func NewMonitor(repo Repository, logger *slog.Logger, inactiveAfter, purgeAfter time.Duration) *Monitor {
	return &Monitor{
		repo:          repo,
		tracker:       NewTracker(),
		logger:        logger,
		inactiveAfter: inactiveAfter,
		purgeAfter:    purgeAfter,
		now:           time.Now,
	}
}

// HandleMessage processes one raw MQTT message: decode, track liveness,
// evaluate every sensor, store whatever fired.
func (m *Monitor) HandleMessage(topic string, raw []byte) {
	p, err := telemetry.Decode(raw)
	if err != nil {
		m.logger.Warn("dropping malformed telemetry", "topic", topic, "error", err)
		return
	}

	fired := m.Evaluate(p)
	if len(fired) == 0 {
		return
	}
	if err := m.repo.Insert(fired); err != nil {
		m.logger.Error("store alerts", "facade_id", p.FacadeID, "count", len(fired), "error", err)
		return
	}
	m.logger.Info("alerts recorded", "facade_id", p.FacadeID, "count", len(fired))
}

// Evaluate applies the threshold rules to every sensor in the payload and
// returns the alerts that fired.
func (m *Monitor) Evaluate(p telemetry.Payload) []*Alert {
	now := m.now()

	observedAt := now
	if ts, err := time.Parse(time.RFC3339, p.TS); err == nil {
		observedAt = ts
	}

	var fired []*Alert
	for sensor, value := range p.Data {
		m.tracker.Observe(p.FacadeID, sensor, observedAt)
		if a := Evaluate(p.FacadeID, sensor, value, now); a != nil {
			fired = append(fired, a)
		}
	}
	return fired
}

// CheckInactive raises one alert per sensor that fell silent.
func (m *Monitor) CheckInactive() {
	now := m.now()
	stale := m.tracker.Stale(now, m.inactiveAfter)
	if len(stale) == 0 {
		return
	}

	alerts := make([]*Alert, 0, len(stale))
	for _, s := range stale {
		alerts = append(alerts, NewInactiveAlert(s.FacadeID, s.SensorName, s.LastSeen, now))
	}
	if err := m.repo.Insert(alerts); err != nil {
		m.logger.Error("store inactivity alerts", "count", len(alerts), "error", err)
		return
	}
	m.logger.Warn("inactive sensors detected", "count", len(alerts))
}

// Purge drops alerts past the retention window.
func (m *Monitor) Purge() {
	n, err := m.repo.PurgeOlderThan(m.now().Add(-m.purgeAfter))
	if err != nil {
		m.logger.Error("purge old alerts", "error", err)
		return
	}
	if n > 0 {
		m.logger.Info("old alerts purged", "count", n)
	}
}

// Run drives the periodic inactivity and retention checks until ctx ends.
// Message handling happens on the MQTT client's callbacks, not here.
func (m *Monitor) Run(ctx context.Context, inactiveEvery, purgeEvery time.Duration) error {
	inactiveTicker := time.NewTicker(inactiveEvery)
	defer inactiveTicker.Stop()
	purgeTicker := time.NewTicker(purgeEvery)
	defer purgeTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-inactiveTicker.C:
			m.CheckInactive()
		case <-purgeTicker.C:
			m.Purge()
		}
	}
}

package alerts

import (
	"sync"
	"time"
)

type sensorKey struct {
	FacadeID   string
	SensorName string
}

// Tracker remembers when each sensor was last heard from, so silent
// sensors can be flagged. Re-alerting is suppressed until a sensor has
// reported again.
type Tracker struct {
	mu       sync.Mutex
	lastSeen map[sensorKey]time.Time
	alerted  map[sensorKey]bool
}

func NewTracker() *Tracker {
	return &Tracker{
		lastSeen: make(map[sensorKey]time.Time),
		alerted:  make(map[sensorKey]bool),
	}
}

// Observe records a reading for facade/sensor at ts and clears any
// pending inactivity flag.
func (t *Tracker) Observe(facadeID, sensorName string, ts time.Time) {
	k := sensorKey{FacadeID: facadeID, SensorName: sensorName}
	t.mu.Lock()
	defer t.mu.Unlock()
	if ts.After(t.lastSeen[k]) {
		t.lastSeen[k] = ts
	}
	t.alerted[k] = false
}

// StaleSensor identifies one sensor that went quiet.
type StaleSensor struct {
	FacadeID   string
	SensorName string
	LastSeen   time.Time
}

// Stale returns sensors not heard from within maxAge, once per silence
// episode.
func (t *Tracker) Stale(now time.Time, maxAge time.Duration) []StaleSensor {
	cutoff := now.Add(-maxAge)

	t.mu.Lock()
	defer t.mu.Unlock()

	var out []StaleSensor
	for k, seen := range t.lastSeen {
		if seen.After(cutoff) || t.alerted[k] {
			continue
		}
		t.alerted[k] = true
		out = append(out, StaleSensor{FacadeID: k.FacadeID, SensorName: k.SensorName, LastSeen: seen})
	}
	return out
}

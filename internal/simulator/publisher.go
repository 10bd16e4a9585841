package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// Publisher is the transport the simulator needs from the MQTT layer.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// Runner publishes synthetic payloads for one device until the context
// ends.
type Runner struct {
	gen      *Generator
	pub      Publisher
	logger   *slog.Logger
	interval time.Duration
}

func NewRunner(gen *Generator, pub Publisher, logger *slog.Logger, interval time.Duration) *Runner {
	return &Runner{gen: gen, pub: pub, logger: logger, interval: interval}
}

// Topic is where the device's full snapshot is published.
func (r *Runner) Topic() string {
	return fmt.Sprintf("sensors/%s/all", r.gen.DeviceID)
}

// Run publishes one payload immediately and then on every interval tick.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.publishOnce()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.publishOnce()
		}
	}
}

func (r *Runner) publishOnce() {
	p := r.gen.Payload()
	raw, err := json.Marshal(p)
	if err != nil {
		r.logger.Error("marshal payload failed", "device", r.gen.DeviceID, "error", err)
		return
	}
	if err := r.pub.Publish(r.Topic(), raw); err != nil {
		r.logger.Warn("publish failed", "topic", r.Topic(), "error", err)
		return
	}
	r.logger.Debug("published payload", "topic", r.Topic(), "sensors", len(p.Data))
}

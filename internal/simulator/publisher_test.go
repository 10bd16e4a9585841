package simulator

import (
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/Alkran93/Project-BICPV-sub001/internal/telemetry"
)

type fakePublisher struct {
	topics   []string
	payloads [][]byte
}

func (f *fakePublisher) Publish(topic string, payload []byte) error {
	f.topics = append(f.topics, topic)
	f.payloads = append(f.payloads, payload)
	return nil
}

func TestRunner_publishOnce(t *testing.T) {
	pub := &fakePublisher{}
	gen := NewGenerator("2", "raspi_ref_01", telemetry.FacadeTypeRefrigerated)
	r := NewRunner(gen, pub, slog.Default(), time.Second)

	r.publishOnce()

	if len(pub.topics) != 1 {
		t.Fatalf("published %d messages; want 1", len(pub.topics))
	}
	if got, want := pub.topics[0], "sensors/raspi_ref_01/all"; got != want {
		t.Errorf("topic = %q; want %q", got, want)
	}

	p, err := telemetry.Decode(pub.payloads[0])
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if p.FacadeID != "2" || p.FacadeType != "refrigerada" {
		t.Errorf("facade = %q/%q; want 2/refrigerada", p.FacadeID, p.FacadeType)
	}
}

func TestRunner_payloadRoundTrips(t *testing.T) {
	gen := NewGenerator("1", "raspi_no_ref_01", telemetry.FacadeTypeNonRefrigerated)
	raw, err := json.Marshal(gen.Payload())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if _, err := telemetry.Decode(raw); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
}

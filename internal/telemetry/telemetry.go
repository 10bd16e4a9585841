// Package telemetry defines the MQTT payload shared by the simulator and
// the alert monitor. One message carries every sensor of a device on the
// sensors/{device}/all topic.
package telemetry

import (
	"encoding/json"
	"fmt"
)

const (
	FacadeTypeRefrigerated    = "refrigerada"
	FacadeTypeNonRefrigerated = "no_refrigerada"
)

// Payload is one published snapshot of a device's sensors. Data values
// are nullable: a broken sensor publishes null rather than omitting the
// key.
type Payload struct {
	TS         string              `json:"ts"`
	FacadeID   string              `json:"facade_id"`
	DeviceID   string              `json:"device_id"`
	FacadeType string              `json:"facade_type"`
	Data       map[string]*float64 `json:"data"`
}

// Decode parses a raw MQTT message body and checks the fields the alert
// pipeline depends on.
func Decode(raw []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Payload{}, fmt.Errorf("decode telemetry: %w", err)
	}
	if p.FacadeID == "" {
		return Payload{}, fmt.Errorf("decode telemetry: missing facade_id")
	}
	if len(p.Data) == 0 {
		return Payload{}, fmt.Errorf("decode telemetry: no sensor data for device %q", p.DeviceID)
	}
	return p, nil
}

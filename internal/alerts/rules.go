// Package alerts evaluates sensor readings against operational limits
// and records the resulting alerts.
package alerts

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	TypeSensorError    = "sensor_error"
	TypeBelowThreshold = "value_below_threshold"
	TypeAboveThreshold = "value_above_threshold"
	TypeSensorInactive = "sensor_inactive"

	SeverityWarning  = "warning"
	SeverityMedium   = "medium"
	SeverityCritical = "critical"
)

// Alert is one detected anomaly.
type Alert struct {
	ID          string    `json:"id"`
	FacadeID    string    `json:"facadeId"`
	SensorName  string    `json:"sensorName"`
	Type        string    `json:"type"`
	Severity    string    `json:"severity"`
	Description string    `json:"description"`
	Value       *float64  `json:"value,omitempty"`
	Threshold   *float64  `json:"threshold,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Threshold is the allowed range for one sensor.
type Threshold struct {
	Min float64
	Max float64
}

// Operational limits per sensor, matching the deployed installation.
var thresholds = map[string]Threshold{
	"Temperatura_Ambiente": {Min: -10, Max: 50},
	"Irradiancia":          {Min: 0, Max: 1500},
	"Velocidad_Viento":     {Min: 0, Max: 30},
	"Humedad":              {Min: 0, Max: 100},
	"T_ValvulaExpansion":   {Min: -50, Max: 50},
	"T_EntCompresor":       {Min: -50, Max: 80},
	"T_SalCompresor":       {Min: -50, Max: 100},
	"T_SalCondensador":     {Min: -50, Max: 80},
	"T_Entrada_Agua":       {Min: -10, Max: 60},
	"T_Salida_Agua":        {Min: -10, Max: 60},
	"Presion_Alta":         {Min: 0, Max: 500},
	"Presion_Baja":         {Min: 0, Max: 30},
	"Flujo_Agua_LPM":       {Min: 0, Max: 500},
}

// severityMargin: a breach within this distance of the bound is a warning,
// anything further out is critical.
const severityMargin = 5.0

// Evaluate checks one reading and returns an alert, or nil when the value
// is acceptable. Nil and negative values are sensor errors; sensors
// without a configured threshold only get the sensor-error check.
func Evaluate(facadeID, sensorName string, value *float64, now time.Time) *Alert {
	if value == nil || *value < 0 {
		return &Alert{
			ID:          uuid.NewString(),
			FacadeID:    facadeID,
			SensorName:  sensorName,
			Type:        TypeSensorError,
			Severity:    SeverityCritical,
			Description: fmt.Sprintf("Sensor %s reported invalid value: %s", sensorName, formatValue(value)),
			Value:       value,
			CreatedAt:   now,
		}
	}

	th, ok := thresholds[sensorName]
	if !ok {
		return nil
	}

	v := *value
	switch {
	case v < th.Min:
		bound := th.Min
		return &Alert{
			ID:          uuid.NewString(),
			FacadeID:    facadeID,
			SensorName:  sensorName,
			Type:        TypeBelowThreshold,
			Severity:    breachSeverity(v, bound),
			Description: fmt.Sprintf("Sensor %s value (%.2f) below minimum (%g)", sensorName, v, bound),
			Value:       value,
			Threshold:   &bound,
			CreatedAt:   now,
		}
	case v > th.Max:
		bound := th.Max
		return &Alert{
			ID:          uuid.NewString(),
			FacadeID:    facadeID,
			SensorName:  sensorName,
			Type:        TypeAboveThreshold,
			Severity:    breachSeverity(v, bound),
			Description: fmt.Sprintf("Sensor %s value (%.2f) above maximum (%g)", sensorName, v, bound),
			Value:       value,
			Threshold:   &bound,
			CreatedAt:   now,
		}
	}
	return nil
}

// NewInactiveAlert reports a sensor that has stopped publishing.
func NewInactiveAlert(facadeID, sensorName string, lastSeen, now time.Time) *Alert {
	return &Alert{
		ID:          uuid.NewString(),
		FacadeID:    facadeID,
		SensorName:  sensorName,
		Type:        TypeSensorInactive,
		Severity:    SeverityMedium,
		Description: fmt.Sprintf("Sensor %s inactive since %s", sensorName, lastSeen.UTC().Format(time.RFC3339)),
		CreatedAt:   now,
	}
}

func breachSeverity(v, bound float64) string {
	d := v - bound
	if d < 0 {
		d = -d
	}
	if d < severityMargin {
		return SeverityWarning
	}
	return SeverityCritical
}

func formatValue(v *float64) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%.2f", *v)
}

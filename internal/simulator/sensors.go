// Package simulator produces synthetic sensor payloads for both facade
// variants, for local development and end-to-end tests.
package simulator

import "fmt"

// Modules are the facade panel modules; each carries three measurement
// points.
var Modules = []string{"M1", "M2", "M3", "M4", "M5"}

const PointsPerModule = 3

// Hardware sensor ids of the 15 panel temperature probes, in module/point
// order.
var panelSensorIDs = []string{
	"00000060be1e", "00000060dfc5", "000000615422",
	"000000619813", "00000065b191", "000000617179",
	"00000061fcd4", "00000062bab4", "00000061868c",
	"0000006395cf", "000000616636", "00000060c752",
	"000000609e8b", "00000062f690", "00000063ad21",
}

// cycleSensorIDs maps the refrigeration-cycle probes to their names.
var cycleSensorIDs = map[string]string{
	"00000063b890": "T_Entrada_Agua",
	"00000061916c": "T_ValvulaExpansion",
	"000000610398": "T_Salida_Agua",
	"000000611dc5": "T_SalCompresor",
	"000000609073": "T_EntCompresor",
	"000000625eef": "T_SalCondensador",
}

// SensorMap returns hardware id -> sensor name for the given facade type.
// Both variants carry the 15 panel probes; the refrigerated one adds the
// cycle probes and one inlet probe per module.
func SensorMap(facadeType string) map[string]string {
	m := make(map[string]string)
	for i, module := range Modules {
		for point := 1; point <= PointsPerModule; point++ {
			idx := i*PointsPerModule + (point - 1)
			if idx < len(panelSensorIDs) {
				m[panelSensorIDs[idx]] = fmt.Sprintf("Temperature_%s_%d", module, point)
			}
		}
	}

	if facadeType != "refrigerada" {
		return m
	}

	for id, name := range cycleSensorIDs {
		m[id] = name
	}
	for i, module := range Modules {
		m[fmt.Sprintf("0000006%05d", i)] = "T_Entrada_" + module
	}
	return m
}

package simulator

import (
	"math/rand/v2"
	"time"

	"github.com/Alkran93/Project-BICPV-sub001/internal/telemetry"
)

// Generator builds randomized payloads for one simulated device.
type Generator struct {
	FacadeID   string
	DeviceID   string
	FacadeType string

	rng *rand.Rand
	now func() time.Time
}

func NewGenerator(facadeID, deviceID, facadeType string) *Generator {
	return &Generator{
		FacadeID:   facadeID,
		DeviceID:   deviceID,
		FacadeType: facadeType,
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:        time.Now,
	}
}

// Payload builds one full sensor snapshot for the device.
func (g *Generator) Payload() telemetry.Payload {
	data := g.environmental()

	for _, name := range SensorMap(g.FacadeType) {
		data[name] = fp(g.temp(25, 6))
	}

	if g.FacadeType == telemetry.FacadeTypeRefrigerated {
		// Cycle probes get plausible loop temperatures instead of the
		// generic panel spread.
		data["T_EntCompresor"] = fp(g.temp(10, 4))
		data["T_SalCompresor"] = fp(g.temp(70, 10))
		data["T_SalCondensador"] = fp(g.temp(45, 8))
		data["T_ValvulaExpansion"] = fp(g.temp(5, 4))
		data["T_Entrada_Agua"] = fp(g.temp(18, 4))
		data["T_Salida_Agua"] = fp(g.temp(24, 4))

		data["Presion_Alta"] = fp(PressureFromADC(g.volts(0.6, 4.2), 0.5))
		data["Presion_Baja"] = fp(PressureFromADC(g.volts(0.5, 1.2), 0.5))
		data["Flujo_Agua_LPM"] = fp(g.uniform(0, 50))
	}

	return telemetry.Payload{
		TS:         g.now().UTC().Format(time.RFC3339),
		FacadeID:   g.FacadeID,
		DeviceID:   g.DeviceID,
		FacadeType: g.FacadeType,
		Data:       data,
	}
}

func (g *Generator) environmental() map[string]*float64 {
	return map[string]*float64{
		"Temperatura_Ambiente": fp(g.temp(26, 8)),
		"Humedad":              fp(g.uniform(20, 85)),
		"Irradiancia":          fp(Irradiance(g.volts(0.05, 3.5))),
		"Velocidad_Viento":     fp(WindSpeed(g.volts(0.1, 2.2))),
	}
}

func (g *Generator) temp(base, spread float64) float64 {
	return round2(g.uniform(base-spread, base+spread))
}

func (g *Generator) uniform(min, max float64) float64 {
	return round2(min + g.rng.Float64()*(max-min))
}

func (g *Generator) volts(min, max float64) float64 {
	return round3(min + g.rng.Float64()*(max-min))
}

func fp(v float64) *float64 { return &v }

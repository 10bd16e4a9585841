package simulator

import "math"

// irradianceScale converts pyranometer output volts to W/m².
const irradianceScale = 0.0017457

// Irradiance converts a voltage reading to irradiance in W/m².
func Irradiance(vOut float64) float64 {
	return round2(vOut / irradianceScale)
}

// WindSpeed derives wind speed (m/s) from the anemometer voltage. The
// transducer saturates below 0.5V and above 2.0V.
func WindSpeed(vOut float64) float64 {
	switch {
	case vOut < 0.5:
		return 0.0
	case vOut > 2.0:
		return 70.0
	default:
		return round2((vOut-0.4)*31.25 + 0.5)
	}
}

// PressureFromADC converts an ADC voltage through the transducer's
// divider network to PSI.
func PressureFromADC(volt, offset float64) float64 {
	scale := (39000.0 + 100000.0) / 100000.0
	return round2((200.0 / (4.5 - offset)) * ((volt * scale) - offset))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

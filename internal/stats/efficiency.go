package stats

// Efficiency derives the temperature reduction achieved by the
// refrigerated facade and the relative improvement percentage.
func Efficiency(refrigerated, nonRefrigerated float64) EfficiencyMetrics {
	m := EfficiencyMetrics{
		RefrigeratedTemp:    refrigerated,
		NonRefrigeratedTemp: nonRefrigerated,
		Reduction:           nonRefrigerated - refrigerated,
	}
	if nonRefrigerated == 0 {
		m.InsufficientData = true
		return m
	}
	m.EfficiencyImprovementPct = m.Reduction / nonRefrigerated * 100
	return m
}

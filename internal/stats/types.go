// Package stats reduces raw facade sensor readings into the aggregates
// shown on the dashboard: per-cycle-point statistics, a cross-point
// summary, and the refrigeration efficiency metrics.
package stats

// Reading is a single timestamped sensor sample as delivered by the
// measurement API. Timestamps are ISO-8601 strings; their lexicographic
// order matches chronological order, so they are compared as strings.
// Value is nil when the sensor reported an unusable sample.
type Reading struct {
	TS       string   `json:"ts"`
	Value    *float64 `json:"value"`
	DeviceID string   `json:"device_id"`
}

// CyclePointGroup is the set of readings for one named measurement point
// along the refrigeration loop (compressor inlet, condenser outlet, ...).
type CyclePointGroup struct {
	Label    string    `json:"label"`
	Readings []Reading `json:"readings"`
}

// TimestampRange is the span covered by the samples behind a statistic.
type TimestampRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// CycleStatistic is the reduced view of one cycle point. It is recomputed
// on every fetch and never persisted.
type CycleStatistic struct {
	CyclePoint     string         `json:"cyclePoint"`
	Avg            float64        `json:"avg"`
	Min            float64        `json:"min"`
	Max            float64        `json:"max"`
	SampleCount    int            `json:"sampleCount"`
	TimestampRange TimestampRange `json:"timestampRange"`
}

// CycleSummary aggregates across all emitted statistics. OverallAvg is the
// mean of per-point averages, not weighted by sample count.
type CycleSummary struct {
	OverallAvg   float64 `json:"overallAvg"`
	OverallMin   float64 `json:"overallMin"`
	OverallMax   float64 `json:"overallMax"`
	TotalSamples int     `json:"totalSamples"`
	Hottest      string  `json:"hottest"`
	HottestAvg   float64 `json:"hottestAvg"`
	Coldest      string  `json:"coldest"`
	ColdestAvg   float64 `json:"coldestAvg"`
}

// EfficiencyMetrics compares the refrigerated facade against the
// non-refrigerated one over the same time window.
type EfficiencyMetrics struct {
	RefrigeratedTemp    float64 `json:"refrigeratedTemp"`
	NonRefrigeratedTemp float64 `json:"nonRefrigeratedTemp"`
	Reduction           float64 `json:"reduction"`

	// EfficiencyImprovementPct is Reduction / NonRefrigeratedTemp * 100.
	// When the non-refrigerated average is zero the percentage is clamped
	// to 0 and InsufficientData is set; non-finite values never escape.
	EfficiencyImprovementPct float64 `json:"efficiencyImprovementPct"`
	InsufficientData         bool    `json:"insufficientData"`
}

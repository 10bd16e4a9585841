package stats

// ReduceCycle computes one CycleStatistic per group, preserving the input
// order. Groups without a single usable reading are dropped entirely,
// never emitted with sentinel values.
func ReduceCycle(points []CyclePointGroup) []CycleStatistic {
	out := make([]CycleStatistic, 0, len(points))
	for _, group := range points {
		stat, ok := reduceGroup(group)
		if !ok {
			continue
		}
		out = append(out, stat)
	}
	return out
}

func reduceGroup(group CyclePointGroup) (CycleStatistic, bool) {
	var (
		sum      float64
		count    int
		min, max float64
		tsRange  TimestampRange
	)
	for _, r := range group.Readings {
		if r.Value == nil {
			continue
		}
		v := *r.Value
		if count == 0 {
			min, max = v, v
			tsRange = TimestampRange{Start: r.TS, End: r.TS}
		} else {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
			if r.TS < tsRange.Start {
				tsRange.Start = r.TS
			}
			if r.TS > tsRange.End {
				tsRange.End = r.TS
			}
		}
		sum += v
		count++
	}
	if count == 0 {
		return CycleStatistic{}, false
	}
	return CycleStatistic{
		CyclePoint:     group.Label,
		Avg:            sum / float64(count),
		Min:            min,
		Max:            max,
		SampleCount:    count,
		TimestampRange: tsRange,
	}, true
}

// Summarize folds the emitted statistics into the summary-card view.
// Ties for hottest/coldest keep the first-encountered point, because only
// a strictly better average replaces the current extremum.
func Summarize(statistics []CycleStatistic) (CycleSummary, bool) {
	if len(statistics) == 0 {
		return CycleSummary{}, false
	}

	first := statistics[0]
	s := CycleSummary{
		OverallMin: first.Min,
		OverallMax: first.Max,
		Hottest:    first.CyclePoint,
		HottestAvg: first.Avg,
		Coldest:    first.CyclePoint,
		ColdestAvg: first.Avg,
	}

	var avgSum float64
	for _, stat := range statistics {
		avgSum += stat.Avg
		s.TotalSamples += stat.SampleCount
		if stat.Min < s.OverallMin {
			s.OverallMin = stat.Min
		}
		if stat.Max > s.OverallMax {
			s.OverallMax = stat.Max
		}
		if stat.Avg > s.HottestAvg {
			s.Hottest = stat.CyclePoint
			s.HottestAvg = stat.Avg
		}
		if stat.Avg < s.ColdestAvg {
			s.Coldest = stat.CyclePoint
			s.ColdestAvg = stat.Avg
		}
	}
	s.OverallAvg = avgSum / float64(len(statistics))

	return s, true
}

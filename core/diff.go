package core

import (
	"math"

	"github.com/huangsam/coverdelta/schema"
)

// GenerateDiff compares every key of target against base.
// A key missing from base is diffed against itself, so its deltas are 0.
// isTracked may be nil, in which case no key is considered tracked.
func GenerateDiff(target, base schema.CoverageReport, isTracked func(string) bool, hasBase bool) schema.DiffResult {
	result := schema.DiffResult{Sections: make(map[string]schema.FileDiff, len(target))}

	for key, section := range target {
		baseSection, inBase := base[key]
		fileDiff := schema.FileDiff{
			IsNewFile:     hasBase && key != schema.TotalKey && section.Lines != nil && (!inBase || baseSection.Lines == nil),
			IsTrackedByPR: isTracked != nil && isTracked(key),
		}

		for _, name := range schema.AllMetrics {
			percent := section.Pct(name)
			basePercent := percent
			if m := baseSection.Metric(name); inBase && m != nil {
				basePercent = m.Pct
			}
			delta := schema.MetricDelta{
				Percent: percent,
				Diff:    percent - basePercent,
				Total:   section.Total(name),
			}
			fileDiff.SetDelta(name, delta)
			result.WorstDelta = math.Min(result.WorstDelta, delta.Diff)
		}

		result.Sections[key] = fileDiff
	}

	return result
}

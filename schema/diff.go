package schema

import "math"

// MetricDelta is the coverage change of one metric for one file.
type MetricDelta struct {
	Percent float64 `json:"percent"`
	Diff    float64 `json:"diff"`
	Total   int     `json:"total"`
}

// FileDiff holds the per-metric deltas for one report key.
type FileDiff struct {
	IsNewFile     bool        `json:"is_new_file"`
	IsTrackedByPR bool        `json:"is_tracked_by_pr"`
	Lines         MetricDelta `json:"lines"`
	Statements    MetricDelta `json:"statements"`
	Functions     MetricDelta `json:"functions"`
	Branches      MetricDelta `json:"branches"`
}

// Delta returns the delta of the named metric.
func (d FileDiff) Delta(name MetricName) MetricDelta {
	switch name {
	case LinesMetric:
		return d.Lines
	case StatementsMetric:
		return d.Statements
	case FunctionsMetric:
		return d.Functions
	case BranchesMetric:
		return d.Branches
	default:
		return MetricDelta{}
	}
}

// SetDelta stores the delta of the named metric.
func (d *FileDiff) SetDelta(name MetricName, delta MetricDelta) {
	switch name {
	case LinesMetric:
		d.Lines = delta
	case StatementsMetric:
		d.Statements = delta
	case FunctionsMetric:
		d.Functions = delta
	case BranchesMetric:
		d.Branches = delta
	}
}

// MaxAbsDiff returns the largest absolute change across all metrics.
func (d FileDiff) MaxAbsDiff() float64 {
	maxDiff := 0.0
	for _, name := range AllMetrics {
		maxDiff = math.Max(maxDiff, math.Abs(d.Delta(name).Diff))
	}
	return maxDiff
}

// DiffResult is the outcome of comparing a target report against a base report.
// WorstDelta is never positive.
type DiffResult struct {
	WorstDelta float64             `json:"worst_delta"`
	Sections   map[string]FileDiff `json:"sections"`
}

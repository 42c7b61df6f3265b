package schema

import "sort"

// CoverageMetric is one metric entry of an istanbul json-summary report.
type CoverageMetric struct {
	Total   int     `json:"total"`
	Covered int     `json:"covered"`
	Skipped int     `json:"skipped"`
	Pct     float64 `json:"pct"`
}

// CoverageSection holds the metrics for one file or for the aggregate entry.
// Any metric may be missing from the report, so each one is optional.
type CoverageSection struct {
	Lines        *CoverageMetric `json:"lines,omitempty"`
	Statements   *CoverageMetric `json:"statements,omitempty"`
	Functions    *CoverageMetric `json:"functions,omitempty"`
	Branches     *CoverageMetric `json:"branches,omitempty"`
	LinesCovered map[string]int  `json:"linesCovered,omitempty"`
}

// Metric returns the named metric, or nil when the report omitted it.
func (s CoverageSection) Metric(name MetricName) *CoverageMetric {
	switch name {
	case LinesMetric:
		return s.Lines
	case StatementsMetric:
		return s.Statements
	case FunctionsMetric:
		return s.Functions
	case BranchesMetric:
		return s.Branches
	default:
		return nil
	}
}

// Pct returns the percentage for the named metric, or 0 when it is absent.
func (s CoverageSection) Pct(name MetricName) float64 {
	if m := s.Metric(name); m != nil {
		return m.Pct
	}
	return 0
}

// Total returns the item count for the named metric, or 0 when it is absent.
func (s CoverageSection) Total(name MetricName) int {
	if m := s.Metric(name); m != nil {
		return m.Total
	}
	return 0
}

// CoverageReport maps report file keys to their coverage section.
// The TotalKey entry holds the aggregate for the whole report.
type CoverageReport map[string]CoverageSection

// HasTotal reports whether the report carries the aggregate entry.
func (r CoverageReport) HasTotal() bool {
	_, ok := r[TotalKey]
	return ok
}

// FileKeys returns every key except the aggregate entry, sorted lexicographically.
func (r CoverageReport) FileKeys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		if k != TotalKey {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

package core

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/huangsam/coverdelta/schema"
	"github.com/samber/lo"
)

// DefaultMinChange is the smallest absolute delta that marks a file as changed.
const DefaultMinChange = 0.1

// Line coverage bands used for status classification.
const (
	goodStatusAbove    = 80.0
	warningStatusAbove = 40.0
)

// ClassifyOptions controls how a DiffResult is bucketed and formatted.
type ClassifyOptions struct {
	StripPrefix        string
	MinChangeMagnitude float64
	FailThreshold      float64
	// TrackedOnly keeps untracked files out of the Changed bucket.
	TrackedOnly bool
	// FileURL optionally links a report key to its diff view.
	FileURL func(key string) string
}

// Classify buckets every file of the diff, formats its numbers and evaluates pass/fail.
// Keys are visited in lexicographic order so repeated calls give identical output.
func Classify(diff schema.DiffResult, opts ClassifyOptions) schema.PresentationView {
	minChange := opts.MinChangeMagnitude
	if minChange < 0 {
		minChange = DefaultMinChange
	}

	view := schema.PresentationView{
		Changed:    []schema.FileRow{},
		Unchanged:  []schema.FileRow{},
		All:        []schema.FileRow{},
		Total:      emptyRow(schema.TotalDisplayName),
		WorstDelta: diff.WorstDelta,
	}

	for _, key := range sortedKeys(diff.Sections) {
		fileDiff := diff.Sections[key]
		row := buildRow(key, fileDiff, opts)

		if key == schema.TotalKey {
			row.Name = schema.TotalDisplayName
			view.Total = row
			continue
		}

		changed := fileDiff.IsNewFile || fileDiff.MaxAbsDiff() >= minChange
		if opts.TrackedOnly && !fileDiff.IsTrackedByPR {
			changed = false
		}
		if changed {
			view.Changed = append(view.Changed, row)
		} else {
			view.Unchanged = append(view.Unchanged, row)
		}
		view.All = append(view.All, row)
	}

	view.Failed, view.FailureMessage = CheckFailure(diff.WorstDelta, opts.FailThreshold)
	return view
}

// buildRow formats a single FileDiff into a display row.
func buildRow(key string, fileDiff schema.FileDiff, opts ClassifyOptions) schema.FileRow {
	row := schema.FileRow{
		Name:      DisplayName(key, opts.StripPrefix),
		Key:       key,
		IsNewFile: fileDiff.IsNewFile,
		IsTracked: fileDiff.IsTrackedByPR,
		Status:    StatusFor(fileDiff.Lines.Percent),
	}
	if opts.FileURL != nil && key != schema.TotalKey {
		row.URL = opts.FileURL(key)
	}
	for _, name := range schema.AllMetrics {
		delta := fileDiff.Delta(name)
		row.SetCell(name, schema.MetricCell{
			Percent: DecimalToString(delta.Percent),
			Diff:    DecimalToString(delta.Diff),
		})
	}
	return row
}

// emptyRow returns a row whose cells are all zero.
func emptyRow(name string) schema.FileRow {
	row := schema.FileRow{Name: name, Key: schema.TotalKey, Status: StatusFor(0)}
	for _, metric := range schema.AllMetrics {
		row.SetCell(metric, schema.MetricCell{Percent: "0", Diff: "0"})
	}
	return row
}

// sortedKeys returns the section keys in lexicographic order.
func sortedKeys(sections map[string]schema.FileDiff) []string {
	keys := lo.Keys(sections)
	slices.Sort(keys)
	return keys
}

// DisplayName strips prefix from the lead of key when present.
func DisplayName(key, prefix string) string {
	if prefix == "" {
		return key
	}
	return strings.TrimPrefix(key, prefix)
}

// DecimalToString formats a percentage with one decimal place, rounding half away
// from zero, and drops a trailing ".0".
func DecimalToString(v float64) string {
	rounded := roundTenths(math.Abs(v))
	if rounded == 0 {
		return "0"
	}
	if v < 0 {
		rounded = -rounded
	}
	return strings.TrimSuffix(strconv.FormatFloat(rounded, 'f', 1, 64), ".0")
}

// roundTenths rounds a non-negative value to one decimal place using its shortest
// decimal form, so 1.15 rounds up even though its binary value is slightly below.
func roundTenths(v float64) float64 {
	whole, frac, _ := strings.Cut(strconv.FormatFloat(v, 'f', -1, 64), ".")
	if len(frac) < 2 {
		return v
	}
	truncated, err := strconv.ParseFloat(whole+"."+frac[:1], 64)
	if err != nil {
		return math.Round(v*10) / 10
	}
	if frac[1] >= '5' {
		truncated += 0.1
	}
	return truncated
}

// NormalizeThreshold turns a positive threshold into the equivalent negative bound.
func NormalizeThreshold(t float64) float64 {
	if t > 0 {
		return -t
	}
	return t
}

// CheckFailure decides whether worstDelta breaches the threshold. A zero threshold
// disables the check.
func CheckFailure(worstDelta, threshold float64) (bool, *string) {
	bound := NormalizeThreshold(threshold)
	if bound == 0 || worstDelta > bound {
		return false, nil
	}
	msg := fmt.Sprintf("The coverage is reduced by at least %s%% for one or more files.", regressionAmount(worstDelta))
	return true, &msg
}

// regressionAmount formats the size of a regression. Amounts below the display
// precision keep their first significant digit.
func regressionAmount(worstDelta float64) string {
	amount := math.Abs(worstDelta)
	if s := DecimalToString(amount); s != "0" || amount == 0 {
		return s
	}
	return strconv.FormatFloat(amount, 'g', 1, 64)
}

// StatusFor maps a line coverage percentage to its status band. The band follows the
// one-decimal value shown in the row, so 80.04 displays as 80 and is a warning.
func StatusFor(linesPercent float64) schema.CoverageStatus {
	linesPercent = roundTenths(math.Abs(linesPercent))
	switch {
	case linesPercent > goodStatusAbove:
		return schema.GoodStatus
	case linesPercent > warningStatusAbove:
		return schema.WarningStatus
	default:
		return schema.PoorStatus
	}
}

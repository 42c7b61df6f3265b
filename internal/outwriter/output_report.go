package outwriter

import (
	"cmp"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"

	"github.com/gertd/go-pluralize"
	"github.com/huangsam/coverdelta/internal/contract"
	"github.com/huangsam/coverdelta/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// maxViolationsShown caps the regressed files listed by the check summary.
const maxViolationsShown = 5

var plural = pluralize.NewClient()

// writeReportTable generates and writes the human-readable table of changed files.
func writeReportTable(w io.Writer, result *schema.RunResult, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)

	headers := []string{"Status", "File", "Stmts", "Branches", "Funcs", "Lines"}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	maxWidth := GetMaxTablePathWidth(cfg)
	hasDiffs := result.Context.HasDiffs
	var data [][]string
	for _, row := range append(slices.Clone(result.View.Changed), result.View.Total) {
		name := contract.TruncatePath(row.Name, maxWidth)
		if row.IsNewFile {
			name += " (new)"
		}
		data = append(data, []string{
			contract.GetColorLabel(row.Status),
			name,
			formatCell(row.Statements, hasDiffs),
			formatCell(row.Branches, hasDiffs),
			formatCell(row.Functions, hasDiffs),
			formatCell(row.Lines, hasDiffs),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Showing %s (%d unchanged, %s tracked)\n",
		plural.Pluralize("changed file", len(result.View.Changed), true),
		len(result.View.Unchanged),
		plural.Pluralize("file", len(result.TrackedFiles), true),
	); err != nil {
		return err
	}
	if result.View.Failed && result.View.FailureMessage != nil {
		if _, err := fmt.Fprintln(w, contract.PoorColor.Sprint(*result.View.FailureMessage)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Report generated in %v. File source: %s\n", result.Duration, result.Source); err != nil {
		return err
	}
	return nil
}

// writeCSVReport writes one record per file followed by the aggregate record.
func writeCSVReport(w io.Writer, result *schema.RunResult) error {
	header := append([]string{"file", "key", "status", "changed", "is_new_file", "is_tracked"}, csvMetricHeader()...)

	changed := make(map[string]bool, len(result.View.Changed))
	for _, row := range result.View.Changed {
		changed[row.Key] = true
	}

	rows := append(slices.Clone(result.View.All), result.View.Total)
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		rec := []string{
			row.Name,
			row.Key,
			contract.GetPlainLabel(row.Status),
			strconv.FormatBool(changed[row.Key]),
			strconv.FormatBool(row.IsNewFile),
			strconv.FormatBool(row.IsTracked),
		}
		records = append(records, append(rec, csvMetricFields(result.Diff.Sections[row.Key])...))
	}
	return writeCSVRecords(w, header, records)
}

// regression is a file whose worst metric delta breached the threshold.
type regression struct {
	name   string
	metric schema.MetricName
	diff   float64
}

// writeCheckSummary prints the check result in a concise format suitable for CI/CD.
func writeCheckSummary(w io.Writer, result *schema.RunResult, cfg *contract.Config) error {
	base := "none"
	if cfg.HasBase() {
		base = cfg.BaseCoverageFile
	}
	threshold := "disabled"
	if cfg.FailThreshold != 0 {
		threshold = fmt.Sprintf("%.1f%%", math.Abs(cfg.FailThreshold))
	}

	labels := []string{"Coverage:", "Base:", "Source:", "Threshold:"}
	values := []any{
		cfg.CoverageFile,
		base,
		fmt.Sprintf("%s (%s)", result.Source, plural.Pluralize("tracked file", len(result.TrackedFiles), true)),
		threshold,
	}

	maxLabelLen := 0
	for _, label := range labels {
		maxLabelLen = max(maxLabelLen, len(label))
	}

	if _, err := fmt.Fprintln(w, "Coverage Check Results:"); err != nil {
		return err
	}
	for i, label := range labels {
		if _, err := fmt.Fprintf(w, "  %-*s %v\n", maxLabelLen+1, label, values[i]); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "\nChecked %s in %v\n\n", plural.Pluralize("file", len(result.View.All), true), result.Duration); err != nil {
		return err
	}

	if !result.View.Failed {
		_, err := fmt.Fprintf(w, "✅ Coverage check passed (total lines: %s%%, worst delta: %s%%)\n",
			result.View.Total.Lines.Percent, formatWorst(result.View.WorstDelta))
		return err
	}

	regressions := collectRegressions(result, cfg.FailThreshold)
	if _, err := fmt.Fprintf(w, "❌ %s\n", *result.View.FailureMessage); err != nil {
		return err
	}
	for i, r := range regressions {
		if i == maxViolationsShown {
			if _, err := fmt.Fprintf(w, "  ... and %d more\n", len(regressions)-i); err != nil {
				return err
			}
			break
		}
		if _, err := fmt.Fprintf(w, "  - %s (%s: %s%%)\n", r.name, r.metric, formatWorst(r.diff)); err != nil {
			return err
		}
	}
	return nil
}

// collectRegressions lists the files whose worst delta breached the threshold, worst first.
func collectRegressions(result *schema.RunResult, threshold float64) []regression {
	bound := -math.Abs(threshold)
	rows := append(slices.Clone(result.View.All), result.View.Total)

	var out []regression
	for _, row := range rows {
		diff, ok := result.Diff.Sections[row.Key]
		if !ok {
			continue
		}
		worst := regression{name: row.Name, diff: math.Inf(1)}
		for _, name := range schema.AllMetrics {
			if d := diff.Delta(name).Diff; d < worst.diff {
				worst.metric, worst.diff = name, d
			}
		}
		if worst.diff <= bound {
			out = append(out, worst)
		}
	}
	slices.SortStableFunc(out, func(a, b regression) int {
		return cmp.Compare(a.diff, b.diff)
	})
	return out
}

// formatWorst formats a delta with one decimal place.
func formatWorst(v float64) string {
	rounded := math.Round(v*10) / 10
	if rounded == 0 {
		rounded = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(rounded, 'f', 1, 64)
}

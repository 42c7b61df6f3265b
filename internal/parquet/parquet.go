// Package parquet provides data structures and functions for exporting coverage
// deltas to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/coverdelta/schema"
	"github.com/parquet-go/parquet-go"
)

// FileCoverage is the coverage and delta of one report key in a single run.
type FileCoverage struct {
	// FilePath is the display name of the file, "Total" for the aggregate row
	FilePath string `parquet:"file_path,snappy"`

	// ReportKey is the key as it appears in the coverage report
	ReportKey string `parquet:"report_key,snappy"`

	// GeneratedAt is when the run produced this row (stored as TIMESTAMP with nanosecond precision)
	GeneratedAt time.Time `parquet:"generated_at,snappy"`

	// CommitSHA is the commit the report was generated for (nullable)
	CommitSHA *string `parquet:"commit_sha,optional,snappy"`

	IsTotal   bool   `parquet:"is_total,snappy"`
	IsNewFile bool   `parquet:"is_new_file,snappy"`
	IsTracked bool   `parquet:"is_tracked,snappy"`
	Changed   bool   `parquet:"changed,snappy"`
	Status    string `parquet:"status,snappy"`

	LinesPct        float64 `parquet:"lines_pct,snappy"`
	LinesDiff       float64 `parquet:"lines_diff,snappy"`
	LinesTotal      int32   `parquet:"lines_total,snappy"`
	StatementsPct   float64 `parquet:"statements_pct,snappy"`
	StatementsDiff  float64 `parquet:"statements_diff,snappy"`
	StatementsTotal int32   `parquet:"statements_total,snappy"`
	FunctionsPct    float64 `parquet:"functions_pct,snappy"`
	FunctionsDiff   float64 `parquet:"functions_diff,snappy"`
	FunctionsTotal  int32   `parquet:"functions_total,snappy"`
	BranchesPct     float64 `parquet:"branches_pct,snappy"`
	BranchesDiff    float64 `parquet:"branches_diff,snappy"`
	BranchesTotal   int32   `parquet:"branches_total,snappy"`
}

// WriteFileCoverageParquet writes a slice of FileCoverage structs to a Parquet file.
func WriteFileCoverageParquet(data []FileCoverage, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the FileCoverage struct tags
	writer := parquet.NewGenericWriter[FileCoverage](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertRunResult flattens a run into one row per file plus the aggregate row.
// Rows follow the order of the All bucket with the aggregate last.
func ConvertRunResult(result *schema.RunResult, generatedAt time.Time) []FileCoverage {
	var commit *string
	if result.Context.CommitSHA != "" {
		sha := result.Context.CommitSHA
		commit = &sha
	}

	changed := make(map[string]bool, len(result.View.Changed))
	for _, row := range result.View.Changed {
		changed[row.Key] = true
	}

	rows := make([]FileCoverage, 0, len(result.View.All)+1)
	for _, row := range result.View.All {
		rows = append(rows, convertRow(row, result.Diff.Sections[row.Key], changed[row.Key], commit, generatedAt))
	}
	if totalDiff, ok := result.Diff.Sections[schema.TotalKey]; ok {
		total := convertRow(result.View.Total, totalDiff, false, commit, generatedAt)
		total.IsTotal = true
		rows = append(rows, total)
	}
	return rows
}

// convertRow builds a FileCoverage from a formatted row and its raw deltas.
func convertRow(row schema.FileRow, diff schema.FileDiff, changed bool, commit *string, generatedAt time.Time) FileCoverage {
	return FileCoverage{
		FilePath:        row.Name,
		ReportKey:       row.Key,
		GeneratedAt:     generatedAt,
		CommitSHA:       commit,
		IsNewFile:       diff.IsNewFile,
		IsTracked:       diff.IsTrackedByPR,
		Changed:         changed,
		Status:          string(row.Status),
		LinesPct:        diff.Lines.Percent,
		LinesDiff:       diff.Lines.Diff,
		LinesTotal:      int32(diff.Lines.Total),
		StatementsPct:   diff.Statements.Percent,
		StatementsDiff:  diff.Statements.Diff,
		StatementsTotal: int32(diff.Statements.Total),
		FunctionsPct:    diff.Functions.Percent,
		FunctionsDiff:   diff.Functions.Diff,
		FunctionsTotal:  int32(diff.Functions.Total),
		BranchesPct:     diff.Branches.Percent,
		BranchesDiff:    diff.Branches.Diff,
		BranchesTotal:   int32(diff.Branches.Total),
	}
}

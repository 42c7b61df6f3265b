// Package schema has the coverage report, diff and view models shared by all parts of coverdelta.
package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// MetricName represents one of the coverage metrics tracked per file.
	MetricName string

	// CoverageStatus represents the health band of a file's line coverage.
	CoverageStatus string

	// FileSource represents where the list of tracked files came from.
	FileSource string
)

// TotalKey is the reserved report key that holds the whole-report aggregate.
const TotalKey = "total"

// TotalDisplayName is the display name used for the aggregate row.
const TotalDisplayName = "Total"

// CommentIdentifier marks the PR comment so later runs can update it in place.
const CommentIdentifier = "<!-- test-coverage-reporter-output -->"

// CheckRunName is the name of the check run created for each report.
const CheckRunName = "test-coverage"

// All output modes supported.
const (
	TextOut     OutputMode = "text" // default
	MarkdownOut OutputMode = "markdown"
	CSVOut      OutputMode = "csv"
	JSONOut     OutputMode = "json"
	ParquetOut  OutputMode = "parquet"
)

// All coverage metrics supported.
const (
	LinesMetric      MetricName = "lines"
	StatementsMetric MetricName = "statements"
	FunctionsMetric  MetricName = "functions"
	BranchesMetric   MetricName = "branches"
)

// All coverage statuses supported.
const (
	GoodStatus    CoverageStatus = "good"
	WarningStatus CoverageStatus = "warning"
	PoorStatus    CoverageStatus = "poor"
)

// All tracked-file sources supported.
const (
	ListSource   FileSource = "list"
	GitSource    FileSource = "git"
	GitHubSource FileSource = "github"
	NoSource     FileSource = "none"
)

// AllMetrics lists every metric in display order.
var AllMetrics = []MetricName{LinesMetric, StatementsMetric, FunctionsMetric, BranchesMetric}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:     {},
	MarkdownOut: {},
	CSVOut:      {},
	JSONOut:     {},
	ParquetOut:  {},
}

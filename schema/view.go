package schema

import "time"

// MetricCell is a formatted metric value ready for display.
type MetricCell struct {
	Percent string `json:"percent"`
	Diff    string `json:"diff"`
}

// FileRow is one display row of the coverage summary.
type FileRow struct {
	Name       string         `json:"name"`
	Key        string         `json:"key"`
	URL        string         `json:"url,omitempty"`
	IsNewFile  bool           `json:"is_new_file"`
	IsTracked  bool           `json:"is_tracked"`
	Status     CoverageStatus `json:"status"`
	Lines      MetricCell     `json:"lines"`
	Statements MetricCell     `json:"statements"`
	Functions  MetricCell     `json:"functions"`
	Branches   MetricCell     `json:"branches"`
}

// Cell returns the formatted values of the named metric.
func (r FileRow) Cell(name MetricName) MetricCell {
	switch name {
	case LinesMetric:
		return r.Lines
	case StatementsMetric:
		return r.Statements
	case FunctionsMetric:
		return r.Functions
	case BranchesMetric:
		return r.Branches
	default:
		return MetricCell{}
	}
}

// SetCell stores the formatted values of the named metric.
func (r *FileRow) SetCell(name MetricName, cell MetricCell) {
	switch name {
	case LinesMetric:
		r.Lines = cell
	case StatementsMetric:
		r.Statements = cell
	case FunctionsMetric:
		r.Functions = cell
	case BranchesMetric:
		r.Branches = cell
	}
}

// PresentationView is the bucketed and formatted result handed to renderers.
type PresentationView struct {
	Changed        []FileRow `json:"changed"`
	Unchanged      []FileRow `json:"unchanged"`
	All            []FileRow `json:"all"`
	Total          FileRow   `json:"total"`
	Failed         bool      `json:"failed"`
	FailureMessage *string   `json:"failure_message"`
	WorstDelta     float64   `json:"worst_delta"`
}

// ReportContext carries rendering metadata that the diff computation never reads.
type ReportContext struct {
	Title         string `json:"title"`
	CustomMessage string `json:"custom_message,omitempty"`
	CommitSHA     string `json:"commit_sha,omitempty"`
	CommitURL     string `json:"commit_url,omitempty"`
	Identifier    string `json:"-"`
	HasDiffs      bool   `json:"has_diffs"`
}

// RunResult bundles everything produced by a single run.
type RunResult struct {
	View         PresentationView `json:"view"`
	Diff         DiffResult       `json:"-"`
	Context      ReportContext    `json:"context"`
	Prefix       string           `json:"prefix"`
	TrackedFiles []string         `json:"tracked_files"`
	Source       FileSource       `json:"source"`
	Duration     time.Duration    `json:"duration"`
}

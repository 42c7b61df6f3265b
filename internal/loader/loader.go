// Package loader reads istanbul json-summary coverage reports from disk.
package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/huangsam/coverdelta/internal/contract"
	"github.com/huangsam/coverdelta/schema"
)

// DefaultSummaryPath is where the istanbul json-summary reporter writes its output.
const DefaultSummaryPath = "coverage/coverage-summary.json"

// CommandRunner executes a shell command and returns its combined output.
type CommandRunner func(ctx context.Context, command string) ([]byte, error)

// Loader loads coverage reports, converting non-summary reports when needed.
type Loader struct {
	ConvertCommand string // "{file}" is replaced with the report path
	SummaryPath    string
	run            CommandRunner
}

var _ contract.CoverageLoader = &Loader{} // Compile-time check

// NewLoader creates a loader that shells out to convertCommand for non-summary reports.
func NewLoader(convertCommand string) *Loader {
	return &Loader{
		ConvertCommand: convertCommand,
		SummaryPath:    DefaultSummaryPath,
		run:            runShell,
	}
}

// WithRunner replaces the command runner. Tests use it to avoid spawning processes.
func (l *Loader) WithRunner(run CommandRunner) *Loader {
	l.run = run
	return l
}

// Load reads the report at path. When it lacks the "total" entry the conversion
// command is run and the generated summary is read instead.
func (l *Loader) Load(ctx context.Context, path string) (schema.CoverageReport, error) {
	report, err := readReport(path)
	if err != nil {
		return nil, err
	}
	if report.HasTotal() {
		return report, nil
	}

	if l.ConvertCommand == "" {
		return nil, fmt.Errorf("%s: %w", path, schema.ErrMalformedReport)
	}
	contract.Logger().Infof("Converting coverage file %s to json-summary", path)
	command := strings.ReplaceAll(l.ConvertCommand, "{file}", path)
	contract.Logger().Debugf("Running %s", command)
	out, err := l.run(ctx, command)
	if err != nil {
		return nil, fmt.Errorf("conversion command failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	contract.Logger().Debugf("%s", out)

	report, err = readReport(l.SummaryPath)
	if err != nil {
		return nil, err
	}
	if !report.HasTotal() {
		return nil, fmt.Errorf("%s: %w", path, schema.ErrMalformedReport)
	}
	return report, nil
}

// LoadOptional loads path when set and reports whether a base report is available.
func LoadOptional(ctx context.Context, l contract.CoverageLoader, path string) (schema.CoverageReport, bool, error) {
	if path == "" {
		return schema.CoverageReport{}, false, nil
	}
	report, err := l.Load(ctx, path)
	if err != nil {
		return nil, false, err
	}
	return report, true, nil
}

// readReport decodes a coverage JSON file.
func readReport(path string) (schema.CoverageReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not load coverage file %s: %w", path, err)
	}
	var report schema.CoverageReport
	if err := json.Unmarshal(data, &report); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("could not load coverage file %s: %w: %v", path, schema.ErrMalformedReport, err)
		}
		return nil, fmt.Errorf("could not load coverage file %s: %w", path, err)
	}
	if report == nil {
		report = schema.CoverageReport{}
	}
	return report, nil
}

// runShell executes command through the system shell.
func runShell(ctx context.Context, command string) ([]byte, error) {
	return exec.CommandContext(ctx, "sh", "-c", command).CombinedOutput()
}

// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/coverdelta/internal/contract"
	"github.com/huangsam/coverdelta/internal/parquet"
	"github.com/huangsam/coverdelta/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteReport writes the coverage summary using the configured output format.
func (ow *OutWriter) WriteReport(result *schema.RunResult, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeOutput(cfg.OutputFile, schema.JSONOut, func(w io.Writer) error {
			return writeJSON(w, result)
		}); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeOutput(cfg.OutputFile, schema.CSVOut, func(w io.Writer) error {
			return writeCSVReport(w, result)
		}); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.MarkdownOut:
		if err := writeOutput(cfg.OutputFile, schema.MarkdownOut, func(w io.Writer) error {
			return writeMarkdown(w, result)
		}); err != nil {
			return fmt.Errorf("error writing markdown output: %w", err)
		}
	case schema.ParquetOut:
		rows := parquet.ConvertRunResult(result, time.Now())
		if err := parquet.WriteFileCoverageParquet(rows, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
		announceOutput(schema.ParquetOut, cfg.OutputFile)
	default:
		// Default to human-readable table
		return writeOutput(cfg.OutputFile, schema.TextOut, func(w io.Writer) error {
			return writeReportTable(w, result, cfg)
		})
	}
	return nil
}

// WriteCheck prints the concise CI summary of a run to stdout.
func (ow *OutWriter) WriteCheck(result *schema.RunResult, cfg *contract.Config) error {
	return writeCheckSummary(os.Stdout, result, cfg)
}

// RenderComment renders the markdown body posted to the pull request.
func (ow *OutWriter) RenderComment(result *schema.RunResult) (string, error) {
	return RenderMarkdown(result)
}

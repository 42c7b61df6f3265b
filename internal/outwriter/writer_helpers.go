package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/huangsam/coverdelta/internal/contract"
	"github.com/huangsam/coverdelta/schema"
)

// csvPrecision is the number of decimals kept for percentages in CSV records.
const csvPrecision = 2

// writeOutput renders a report in the given mode to outputFile, or stdout when it is empty.
func writeOutput(outputFile string, mode schema.OutputMode, render func(io.Writer) error) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := render(file); err != nil {
		return err
	}
	if file != os.Stdout {
		announceOutput(mode, outputFile)
	}
	return nil
}

// announceOutput tells the user on stderr where a report file was written.
func announceOutput(mode schema.OutputMode, outputFile string) {
	fmt.Fprintf(os.Stderr, "💾 Wrote %s report to %s\n", mode, outputFile)
}

// writeJSON encodes a value with two-space indentation.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVRecords writes the header and every record, then flushes.
func writeCSVRecords(w io.Writer, header []string, records [][]string) error {
	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := csvWriter.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write CSV records: %w", err)
	}
	return nil
}

// csvMetricHeader returns the percent, diff and total column names of every metric.
func csvMetricHeader() []string {
	header := make([]string, 0, 3*len(schema.AllMetrics))
	for _, name := range schema.AllMetrics {
		header = append(header, string(name)+"_pct", string(name)+"_diff", string(name)+"_total")
	}
	return header
}

// csvMetricFields formats the metric columns of one file, in csvMetricHeader order.
func csvMetricFields(fileDiff schema.FileDiff) []string {
	fields := make([]string, 0, 3*len(schema.AllMetrics))
	for _, name := range schema.AllMetrics {
		delta := fileDiff.Delta(name)
		fields = append(fields, csvPercent(delta.Percent), csvPercent(delta.Diff), strconv.Itoa(delta.Total))
	}
	return fields
}

// csvPercent formats a percentage or delta with fixed precision. Negative zero prints as zero.
func csvPercent(v float64) string {
	s := strconv.FormatFloat(v, 'f', csvPrecision, 64)
	if s[0] == '-' && strings.Trim(s[1:], "0.") == "" {
		return s[1:]
	}
	return s
}

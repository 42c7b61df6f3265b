package outwriter

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/coverdelta/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVPercent(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected string
	}{
		{name: "coverage percent", value: 82.123, expected: "82.12"},
		{name: "whole percent", value: 100, expected: "100.00"},
		{name: "negative delta", value: -12.151, expected: "-12.15"},
		{name: "negative zero", value: -0.001, expected: "0.00"},
		{name: "zero", value: 0, expected: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, csvPercent(tt.value))
		})
	}
}

func TestCSVMetricColumns(t *testing.T) {
	header := csvMetricHeader()
	require.Len(t, header, 3*len(schema.AllMetrics))
	assert.Equal(t, []string{"lines_pct", "lines_diff", "lines_total"}, header[:3])

	fileDiff := schema.FileDiff{
		Lines:    schema.MetricDelta{Total: 40, Diff: -2.5, Percent: 75},
		Branches: schema.MetricDelta{Total: 8, Percent: 50},
	}
	fields := csvMetricFields(fileDiff)
	require.Len(t, fields, len(header))
	assert.Equal(t, []string{"75.00", "-2.50", "40"}, fields[:3])
	assert.Equal(t, []string{"50.00", "0.00", "8"}, fields[len(fields)-3:])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	cell := schema.MetricCell{Percent: "82.1", Diff: "-1.5"}
	require.NoError(t, writeJSON(&buf, cell))
	assert.Equal(t, "{\n  \"percent\": \"82.1\",\n  \"diff\": \"-1.5\"\n}\n", buf.String())
}

func TestWriteJSONError(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSON(&buf, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteCSVRecords(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVRecords(&buf, []string{"file", "note"}, [][]string{{"src/a.ts", "dropped, then recovered"}})
	require.NoError(t, err)
	assert.Equal(t, "file,note\nsrc/a.ts,\"dropped, then recovered\"\n", buf.String())
}

func TestWriteCSVRecordsHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCSVRecords(&buf, []string{"file"}, nil))
	assert.Equal(t, "file\n", buf.String())
}

func TestWriteOutput(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		called := false
		err := writeOutput("", schema.TextOut, func(_ io.Writer) error {
			called = true
			return nil
		})
		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "summary.md")
		err := writeOutput(path, schema.MarkdownOut, func(w io.Writer) error {
			_, err := io.WriteString(w, schema.CommentIdentifier)
			return err
		})
		require.NoError(t, err)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, schema.CommentIdentifier, string(content))
	})

	t.Run("render error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "summary.md")
		err := writeOutput(path, schema.MarkdownOut, func(_ io.Writer) error { return assert.AnError })
		assert.Equal(t, assert.AnError, err)
	})

	t.Run("invalid path", func(t *testing.T) {
		err := writeOutput("/nonexistent/path/file.txt", schema.TextOut, func(_ io.Writer) error { return nil })
		assert.Error(t, err)
	})
}

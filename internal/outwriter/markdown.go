package outwriter

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/huangsam/coverdelta/schema"
)

//go:embed templates/summary.md.tmpl
var templateFS embed.FS

// Markdown status markers per coverage band.
const (
	goodEmoji    = ":green_circle:"
	warningEmoji = ":yellow_circle:"
	poorEmoji    = ":red_circle:"
)

// markdownData is the view handed to the summary template.
type markdownData struct {
	Identifier     string
	Title          string
	CustomMessage  string
	Failed         bool
	FailureMessage string
	CommitSHA      string
	CommitURL      string
	Total          schema.FileRow
	Changed        []schema.FileRow
	Unchanged      []schema.FileRow
}

// RenderMarkdown renders the PR comment body for a run.
// The first line is always the comment identifier.
func RenderMarkdown(result *schema.RunResult) (string, error) {
	var buf bytes.Buffer
	if err := writeMarkdown(&buf, result); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// writeMarkdown executes the summary template into w.
func writeMarkdown(w io.Writer, result *schema.RunResult) error {
	tmpl, err := template.New("summary.md.tmpl").Funcs(template.FuncMap{
		"row":   markdownRowFunc(result.Context.HasDiffs),
		"short": shortSHA,
	}).ParseFS(templateFS, "templates/summary.md.tmpl")
	if err != nil {
		return fmt.Errorf("template error: %w", err)
	}

	identifier := result.Context.Identifier
	if identifier == "" {
		identifier = schema.CommentIdentifier
	}
	data := markdownData{
		Identifier:    identifier,
		Title:         result.Context.Title,
		CustomMessage: result.Context.CustomMessage,
		Failed:        result.View.Failed,
		CommitSHA:     result.Context.CommitSHA,
		CommitURL:     result.Context.CommitURL,
		Total:         result.View.Total,
		Changed:       result.View.Changed,
		Unchanged:     result.View.Unchanged,
	}
	if result.View.FailureMessage != nil {
		data.FailureMessage = *result.View.FailureMessage
	}

	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("template error: %w", err)
	}
	return nil
}

// markdownRowFunc returns the table row renderer. Diffs are only shown when a base
// report was given.
func markdownRowFunc(hasDiffs bool) func(schema.FileRow) string {
	return func(row schema.FileRow) string {
		isTotal := row.Key == schema.TotalKey
		format := func(text string) string {
			if isTotal {
				return "**" + text + "**"
			}
			return text
		}
		cell := func(c schema.MetricCell) string {
			return format(formatCell(c, hasDiffs))
		}

		name := format(row.Name)
		if row.URL != "" {
			name = fmt.Sprintf("[%s](%s)", name, row.URL)
		}
		return fmt.Sprintf("| %s %s | %s | %s | %s | %s",
			statusEmoji(row.Status),
			name,
			cell(row.Statements),
			cell(row.Branches),
			cell(row.Functions),
			cell(row.Lines),
		)
	}
}

// formatCell renders "pct%" with the diff in parentheses when it is shown and non-zero.
func formatCell(c schema.MetricCell, hasDiffs bool) string {
	out := c.Percent + "%"
	if hasDiffs && c.Diff != "0" {
		out += " (" + c.Diff + ")"
	}
	return out
}

// statusEmoji maps a status band to its markdown marker.
func statusEmoji(status schema.CoverageStatus) string {
	switch status {
	case schema.GoodStatus:
		return goodEmoji
	case schema.WarningStatus:
		return warningEmoji
	default:
		return poorEmoji
	}
}

// shortSHA abbreviates a commit hash for display.
func shortSHA(sha string) string {
	sha = strings.TrimSpace(sha)
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

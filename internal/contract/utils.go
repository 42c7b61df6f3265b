package contract

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
	"github.com/huangsam/coverdelta/schema"
)

// Status label constants.
const (
	GoodValue    = "Good"    // Good value
	WarningValue = "Warning" // Warning value
	PoorValue    = "Poor"    // Poor value
)

// Color variables for console output.
var (
	GoodColor    = color.New(color.FgGreen)           // GoodColor represents healthy coverage.
	WarningColor = color.New(color.FgYellow)          // WarningColor represents standard caution, not bold.
	PoorColor    = color.New(color.FgRed, color.Bold) // PoorColor represents standard danger.
)

// GetPlainLabel returns a plain text label for a coverage status. This is the
// core logic used for CSV, JSON, and table printing.
func GetPlainLabel(status schema.CoverageStatus) string {
	switch status {
	case schema.GoodStatus:
		return GoodValue
	case schema.WarningStatus:
		return WarningValue
	default:
		return PoorValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(status schema.CoverageStatus) string {
	text := GetPlainLabel(status)

	switch text {
	case GoodValue:
		return GoodColor.Sprint(text)
	case WarningValue:
		return WarningColor.Sprint(text)
	default: // "Poor"
		return PoorColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ShouldIgnore returns true if the given path matches any of the exclude patterns.
// Patterns with glob characters are matched with doublestar, so "**" spans directories.
// A glob without a slash is also tried against the base name (e.g. "*.test.ts").
// Patterns ending with '/' are treated as prefixes. Patterns starting with '.' are
// treated as suffix (extension) matches. Anything else is a substring match.
func ShouldIgnore(filePath string, excludes []string) bool {
	for _, ex := range excludes {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}

		if strings.ContainsAny(ex, "*?[{") {
			if ok, err := doublestar.Match(ex, filePath); err == nil && ok {
				return true
			}
			if !strings.Contains(ex, "/") {
				if ok, err := doublestar.Match(ex, path.Base(filePath)); err == nil && ok {
					return true
				}
			}
			continue
		}

		switch {
		case strings.HasSuffix(ex, "/"):
			if strings.HasPrefix(filePath, ex) {
				return true
			}
		case strings.HasPrefix(ex, "."):
			if strings.HasSuffix(filePath, ex) {
				return true
			}
		case strings.Contains(filePath, ex):
			return true
		}
	}
	return false
}

// ValidateExcludes checks that every glob pattern is well-formed.
func ValidateExcludes(excludes []string) error {
	for _, ex := range excludes {
		if strings.ContainsAny(ex, "*?[{") && !doublestar.ValidatePattern(ex) {
			return fmt.Errorf("invalid exclude pattern '%s'", ex)
		}
	}
	return nil
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 so there is room for the "..." prefix and at least one character.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// SplitList splits a comma-separated string, trimming blanks.
func SplitList(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

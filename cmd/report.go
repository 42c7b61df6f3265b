package cmd

import (
	"github.com/huangsam/coverdelta/core"
	"github.com/spf13/cobra"
)

// reportCmd writes the coverage summary in any output format.
var reportCmd = &cobra.Command{
	Use:   "report [coverage-file]",
	Short: "Compare coverage against a base and print the summary",
	Long: `Load a coverage summary, diff it against an optional base summary and write the result.

Files whose coverage moved by at least --min-change are listed as changed. Files in the
change set (from --changed-files, --base-ref or the pull request) are marked as tracked.

Examples:
  # Compare against the base branch summary
  coverdelta report coverage/coverage-summary.json --base-coverage-file base/coverage-summary.json

  # Scope to the files of a local branch
  coverdelta report coverage.json --base-coverage-file base.json --base-ref origin/main

  # Markdown for a job summary
  coverdelta report coverage.json --output markdown --output-file summary.md`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor(core.ExecuteReport, "Coverage report failed")
	},
}

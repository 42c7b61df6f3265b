package cmd

import (
	"github.com/huangsam/coverdelta/core"
	"github.com/spf13/cobra"
)

// checkCmd focused on CI/CD policy enforcement.
var checkCmd = &cobra.Command{
	Use:   "check [coverage-file]",
	Short: "Fail the build when coverage drops past a threshold",
	Long: `Diff coverage against a base summary and exit with a non-zero code when any
file or the total drops by --fail-threshold points or more.

A threshold of 0 disables the gate. Positive and negative thresholds are equivalent.

Examples:
  # Fail when any metric drops by 5 points
  coverdelta check coverage.json --base-coverage-file base.json --fail-threshold 5

  # Only consider the files of this branch
  coverdelta check coverage.json --base-coverage-file base.json --base-ref origin/main --fail-threshold 1`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor(core.ExecuteCheck, "Coverage check failed")
	},
}

package cmd

import (
	"github.com/huangsam/coverdelta/core"
	"github.com/spf13/cobra"
)

// commentCmd posts the summary to a GitHub pull request.
var commentCmd = &cobra.Command{
	Use:   "comment [coverage-file]",
	Short: "Post the coverage summary as a pull request comment",
	Long: `Render the markdown summary and post it to the pull request. A previous summary
comment is updated in place. With --check-run a completed check run is recorded too.

Inside GitHub Actions the token, repository, commit and pull request are read from
GITHUB_TOKEN, GITHUB_REPOSITORY, GITHUB_SHA and GITHUB_EVENT_PATH.

Examples:
  # From a pull_request workflow
  coverdelta comment coverage.json --base-coverage-file base.json --fail-threshold 1 --check-run

  # Explicit pull request
  coverdelta comment coverage.json --repository owner/repo --pr-number 42`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor(core.ExecuteComment, "Coverage comment failed")
	},
}

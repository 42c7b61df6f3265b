// Package cmd defines the command-line interface for coverdelta.
package cmd

import (
	"github.com/huangsam/coverdelta/internal/contract"
	"github.com/huangsam/coverdelta/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("coverage-file", "", "Path to the coverage summary of the change")
	rootCmd.PersistentFlags().String("base-coverage-file", "", "Path to the coverage summary of the base branch")
	rootCmd.PersistentFlags().String("convert-command", contract.DefaultConvertCommand, "Command that turns a raw coverage file into a summary ({file} is replaced)")
	rootCmd.PersistentFlags().Float64("fail-threshold", 0, "Fail when any metric drops by this many points or more (0 disables)")
	rootCmd.PersistentFlags().String("strip-path-prefix", "", "Prefix removed from report keys for display (derived when empty)")
	rootCmd.PersistentFlags().Float64("min-change", contract.DefaultMinChange, "Smallest delta that marks a file as changed")
	rootCmd.PersistentFlags().Bool("tracked-only", false, "Only list tracked files as changed")
	rootCmd.PersistentFlags().String("title", contract.DefaultTitle, "Title of the report")
	rootCmd.PersistentFlags().String("custom-message", "", "Extra message shown under the title")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or markdown or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of path prefixes or patterns to ignore")
	rootCmd.PersistentFlags().String("changed-files", "", "Newline-delimited list of changed files ('-' reads stdin)")
	rootCmd.PersistentFlags().String("repo-path", "", "Path inside the Git repository used with --base-ref")
	rootCmd.PersistentFlags().String("base-ref", "", "Base Git reference for the change set")
	rootCmd.PersistentFlags().String("target-ref", "", "Target Git reference for the change set (defaults to HEAD)")
	rootCmd.PersistentFlags().String("github-token", "", "GitHub token (prefer the GITHUB_TOKEN variable)")
	rootCmd.PersistentFlags().String("repository", "", "GitHub repository as owner/name")
	rootCmd.PersistentFlags().Int("pr-number", 0, "Pull request number")
	rootCmd.PersistentFlags().String("commit-sha", "", "Commit the report was generated for")
	rootCmd.PersistentFlags().String("event-path", "", "Path to the GitHub event payload")
	rootCmd.PersistentFlags().String("api-url", contract.DefaultAPIURL, "GitHub API base URL")
	rootCmd.PersistentFlags().String("server-url", contract.DefaultServerURL, "GitHub server URL used for links")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of commentCmd to Viper
	commentCmd.Flags().Bool("check-run", false, "Also record a check run for the commit")
	if err := viper.BindPFlags(commentCmd.Flags()); err != nil {
		contract.LogFatal("Error binding comment flags", err)
	}
}

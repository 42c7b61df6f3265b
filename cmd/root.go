package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/coverdelta/core"
	"github.com/huangsam/coverdelta/internal/contract"
	"github.com/huangsam/coverdelta/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// gitHubEnv maps config keys to the variables GitHub Actions exports.
var gitHubEnv = map[string]string{
	"github-token": "GITHUB_TOKEN",
	"repository":   "GITHUB_REPOSITORY",
	"commit-sha":   "GITHUB_SHA",
	"event-path":   "GITHUB_EVENT_PATH",
	"api-url":      "GITHUB_API_URL",
	"server-url":   "GITHUB_SERVER_URL",
}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "coverdelta",
	Short:              "Compare test coverage summaries and report what changed.",
	Long:               `Coverdelta diffs an istanbul coverage summary against a base summary and reports the files whose coverage moved.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Set config file name and paths
		viper.SetConfigName(".coverdelta") // Name of config file (without extension)
		viper.SetConfigType("yaml")        // We'll use YAML format
		viper.AddConfigPath(".")           // Look in the current directory
		viper.AddConfigPath("$HOME")       // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("COVERDELTA")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Explicit bindings replace the automatic name, so keep the prefixed one too
	for key, env := range gitHubEnv {
		prefixed := "COVERDELTA_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
		if err := viper.BindEnv(key, prefixed, env); err != nil {
			contract.LogFatal("Error binding environment", err)
		}
	}

	// Set defaults in Viper
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("min-change", contract.DefaultMinChange)
	viper.SetDefault("title", contract.DefaultTitle)
	viper.SetDefault("convert-command", contract.DefaultConvertCommand)
	viper.SetDefault("api-url", contract.DefaultAPIURL)
	viper.SetDefault("server-url", contract.DefaultServerURL)
	viper.SetDefault("color", "yes")
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(ctx context.Context, _ *cobra.Command, args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	if len(args) == 1 {
		input.CoverageFile = args[0]
	}

	// 4. Run all validation and complex parsing.
	// This function now populates the global 'cfg' from 'input'.
	client := contract.NewLocalGitClient()
	if err := contract.ProcessAndValidate(ctx, cfg, client, input); err != nil {
		return err
	}

	contract.InitLogger(cfg.Verbose)
	color.NoColor = !cfg.UseColors
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
// Every run mode needs a coverage file, so it is checked here.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	if err := sharedSetup(rootCtx, cmd, args); err != nil {
		return err
	}
	return contract.RequireCoverageFile(cfg)
}

// runExecutor wires the collaborators for cfg and runs one mode, exiting on failure.
func runExecutor(executor core.ExecutorFunc, failure string) {
	deps, err := core.NewDependencies(cfg, contract.NewLocalGitClient())
	if err != nil {
		contract.LogFatal("Cannot set up run", err)
	}
	if err := executor(rootCtx, cfg, deps); err != nil {
		contract.LogFatal(failure, err)
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

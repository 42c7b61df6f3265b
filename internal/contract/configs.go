package contract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/huangsam/coverdelta/schema"
)

// Default values for configuration.
const (
	DefaultMinChange      = 0.1
	DefaultTitle          = "Test Coverage Report"
	DefaultConvertCommand = `npx istanbul report --include="{file}" json-summary`
	DefaultAPIURL         = "https://api.github.com"
	DefaultServerURL      = "https://github.com"
)

// Config holds the runtime configuration for a coverage run.
// This struct remains the "final, validated" config.
type Config struct {
	CoverageFile     string
	BaseCoverageFile string
	ConvertCommand   string

	FailThreshold   float64 // 0 disables failure checking
	StripPathPrefix string  // Empty means derive it from the tracked files
	MinChange       float64
	TrackedOnly     bool

	Title         string
	CustomMessage string
	Output        schema.OutputMode
	OutputFile    string
	Width         int // Terminal width override (0 = auto-detect)
	UseColors     bool
	Verbose       bool
	Excludes      []string

	Source           schema.FileSource
	ChangedFilesPath string // "-" reads from stdin
	RepoPath         string
	BaseRef          string
	TargetRef        string

	GitHubToken string // Please use env var as this is plaintext
	Repository  string // owner/name
	PRNumber    int
	CommitSHA   string
	RepoURL     string
	APIURL      string
	ServerURL   string
	CheckRun    bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	CoverageFile     string  `mapstructure:"coverage-file"`
	BaseCoverageFile string  `mapstructure:"base-coverage-file"`
	ConvertCommand   string  `mapstructure:"convert-command"`
	FailThreshold    float64 `mapstructure:"fail-threshold"`
	StripPathPrefix  string  `mapstructure:"strip-path-prefix"`
	MinChange        float64 `mapstructure:"min-change"`
	TrackedOnly      bool    `mapstructure:"tracked-only"`
	Title            string  `mapstructure:"title"`
	CustomMessage    string  `mapstructure:"custom-message"`
	Output           string  `mapstructure:"output"`
	OutputFile       string  `mapstructure:"output-file"`
	Width            int     `mapstructure:"width"`
	Color            string  `mapstructure:"color"`
	Verbose          bool    `mapstructure:"verbose"`
	Exclude          string  `mapstructure:"exclude"`

	// --- Tracked file sources ---
	ChangedFiles string `mapstructure:"changed-files"`
	RepoPath     string `mapstructure:"repo-path"`
	BaseRef      string `mapstructure:"base-ref"`
	TargetRef    string `mapstructure:"target-ref"`

	// --- GitHub, usually bound from GITHUB_* variables ---
	GitHubToken string `mapstructure:"github-token"`
	Repository  string `mapstructure:"repository"`
	PRNumber    int    `mapstructure:"pr-number"`
	CommitSHA   string `mapstructure:"commit-sha"`
	EventPath   string `mapstructure:"event-path"`
	APIURL      string `mapstructure:"api-url"`
	ServerURL   string `mapstructure:"server-url"`

	// --- Fields from commentCmd.Flags() ---
	CheckRun bool `mapstructure:"check-run"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Excludes = slices.Clone(c.Excludes)
	return &clone
}

// HasBase reports whether a base coverage file was configured.
func (c *Config) HasBase() bool {
	return c.BaseCoverageFile != ""
}

// CommitURL returns the web URL of the reported commit, or "" when unknown.
func (c *Config) CommitURL() string {
	if c.RepoURL == "" || c.CommitSHA == "" {
		return ""
	}
	return c.RepoURL + "/commit/" + c.CommitSHA
}

// OwnerAndName splits Repository into its owner and name.
func (c *Config) OwnerAndName() (string, string, error) {
	owner, name, ok := strings.Cut(c.Repository, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("%w (received %q)", schema.ErrMissingRepository, c.Repository)
	}
	return owner, name, nil
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processGitHubContext(cfg, input); err != nil {
		return err
	}
	if err := resolveFileSource(ctx, cfg, client, input); err != nil {
		return err
	}
	return nil
}

// RequireCoverageFile checks the inputs that every coverage run needs.
func RequireCoverageFile(cfg *Config) error {
	if strings.TrimSpace(cfg.CoverageFile) == "" {
		return fmt.Errorf("coverage-file is required")
	}
	return nil
}

// validateSimpleInputs processes and validates all non-source fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.CoverageFile = strings.TrimSpace(input.CoverageFile)
	cfg.BaseCoverageFile = strings.TrimSpace(input.BaseCoverageFile)
	cfg.StripPathPrefix = input.StripPathPrefix
	cfg.TrackedOnly = input.TrackedOnly
	cfg.CustomMessage = input.CustomMessage
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Verbose = input.Verbose
	cfg.CheckRun = input.CheckRun

	cfg.ConvertCommand = input.ConvertCommand
	if cfg.ConvertCommand == "" {
		cfg.ConvertCommand = DefaultConvertCommand
	}

	cfg.Title = input.Title
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Threshold Validation ---
	if input.MinChange < 0 {
		return fmt.Errorf("min-change cannot be negative (received %.2f)", input.MinChange)
	}
	cfg.MinChange = input.MinChange
	if input.FailThreshold < -100 || input.FailThreshold > 100 {
		return fmt.Errorf("fail-threshold must be between -100 and 100 (received %.2f)", input.FailThreshold)
	}
	cfg.FailThreshold = input.FailThreshold

	// --- 2. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, markdown, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 3. Excludes Processing ---
	cfg.Excludes = SplitList(input.Exclude)
	return ValidateExcludes(cfg.Excludes)
}

// processGitHubContext fills repository details, reading the event payload when present.
func processGitHubContext(cfg *Config, input *ConfigRawInput) error {
	cfg.GitHubToken = input.GitHubToken
	cfg.Repository = strings.TrimSpace(input.Repository)
	cfg.PRNumber = input.PRNumber
	cfg.CommitSHA = strings.TrimSpace(input.CommitSHA)

	cfg.APIURL = strings.TrimSuffix(input.APIURL, "/")
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	cfg.ServerURL = strings.TrimSuffix(input.ServerURL, "/")
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}

	if cfg.PRNumber < 0 {
		return fmt.Errorf("pr-number must be positive (received %d)", cfg.PRNumber)
	}

	if input.EventPath != "" {
		event, err := LoadPullRequestEvent(input.EventPath)
		if err != nil {
			return err
		}
		if cfg.PRNumber == 0 {
			cfg.PRNumber = event.PRNumber()
		}
		// The head of the pull request wins over the merge commit in GITHUB_SHA.
		if sha := event.HeadSHA(); sha != "" {
			cfg.CommitSHA = sha
		}
		if event.Repository != nil {
			if cfg.Repository == "" {
				cfg.Repository = event.Repository.FullName
			}
			cfg.RepoURL = event.Repository.HTMLURL
		}
	}

	if cfg.RepoURL == "" && cfg.Repository != "" {
		cfg.RepoURL = cfg.ServerURL + "/" + cfg.Repository
	}
	return nil
}

// resolveFileSource decides where the tracked file list comes from.
// Precedence: explicit list, then local refs, then the pull request.
func resolveFileSource(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	cfg.ChangedFilesPath = strings.TrimSpace(input.ChangedFiles)
	cfg.BaseRef = strings.TrimSpace(input.BaseRef)
	cfg.TargetRef = strings.TrimSpace(input.TargetRef)

	switch {
	case cfg.ChangedFilesPath != "":
		cfg.Source = schema.ListSource
		return nil
	case cfg.BaseRef != "" || cfg.TargetRef != "":
		if cfg.BaseRef == "" {
			return fmt.Errorf("must specify --base-ref when --target-ref is set")
		}
		if cfg.TargetRef == "" {
			cfg.TargetRef = "HEAD"
		}
		cfg.Source = schema.GitSource
		return resolveRepoPath(ctx, cfg, client, input.RepoPath)
	case cfg.PRNumber > 0:
		if _, _, err := cfg.OwnerAndName(); err != nil {
			return err
		}
		cfg.Source = schema.GitHubSource
		return nil
	default:
		cfg.Source = schema.NoSource
		return nil
	}
}

// resolveRepoPath resolves the Git repository root containing searchPath.
func resolveRepoPath(ctx context.Context, cfg *Config, client GitClient, searchPath string) error {
	if searchPath == "" {
		searchPath = "."
	}
	absSearchPath, err := filepath.Abs(searchPath)
	if err != nil {
		return err
	}
	absSearchPath = filepath.Clean(absSearchPath)

	gitContextPath := absSearchPath
	if info, statErr := os.Stat(absSearchPath); statErr == nil && !info.IsDir() {
		gitContextPath = filepath.Dir(absSearchPath)
	}

	gitRoot, err := client.GetRepoRoot(ctx, gitContextPath)
	if err != nil {
		return err
	}
	cfg.RepoPath = gitRoot
	return nil
}

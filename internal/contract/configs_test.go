package contract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/coverdelta/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// baseInput returns a raw input that passes validation on its own.
func baseInput() *ConfigRawInput {
	return &ConfigRawInput{
		CoverageFile: "coverage/coverage-summary.json",
		MinChange:    DefaultMinChange,
		Output:       "text",
		Color:        "yes",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
		setupMock   func(*MockGitClient)
		check       func(*testing.T, *Config)
	}{
		{
			name: "valid minimal config",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultMinChange, cfg.MinChange)
				assert.Equal(t, DefaultTitle, cfg.Title)
				assert.Equal(t, DefaultConvertCommand, cfg.ConvertCommand)
				assert.Equal(t, schema.TextOut, cfg.Output)
				assert.Equal(t, schema.NoSource, cfg.Source)
				assert.Equal(t, DefaultAPIURL, cfg.APIURL)
				assert.True(t, cfg.UseColors)
				assert.False(t, cfg.HasBase())
			},
		},
		{
			name:        "invalid output",
			mutate:      func(in *ConfigRawInput) { in.Output = "xml" },
			expectError: true,
		},
		{
			name:        "parquet without output file",
			mutate:      func(in *ConfigRawInput) { in.Output = "parquet" },
			expectError: true,
		},
		{
			name: "markdown output is case insensitive",
			mutate: func(in *ConfigRawInput) {
				in.Output = "Markdown"
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.MarkdownOut, cfg.Output)
			},
		},
		{
			name:   "zero min change is kept",
			mutate: func(in *ConfigRawInput) { in.MinChange = 0 },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 0.0, cfg.MinChange)
			},
		},
		{
			name:        "negative min change",
			mutate:      func(in *ConfigRawInput) { in.MinChange = -1 },
			expectError: true,
		},
		{
			name:        "threshold out of range",
			mutate:      func(in *ConfigRawInput) { in.FailThreshold = 150 },
			expectError: true,
		},
		{
			name:        "invalid color",
			mutate:      func(in *ConfigRawInput) { in.Color = "sometimes" },
			expectError: true,
		},
		{
			name:        "invalid exclude glob",
			mutate:      func(in *ConfigRawInput) { in.Exclude = "src/[a.ts" },
			expectError: true,
		},
		{
			name: "excludes are split",
			mutate: func(in *ConfigRawInput) {
				in.Exclude = "vendor/, **/*.spec.ts"
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"vendor/", "**/*.spec.ts"}, cfg.Excludes)
			},
		},
		{
			name: "changed files list wins",
			mutate: func(in *ConfigRawInput) {
				in.ChangedFiles = "changed.txt"
				in.BaseRef = "main"
				in.PRNumber = 3
				in.Repository = "octo/repo"
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.ListSource, cfg.Source)
				assert.Equal(t, "changed.txt", cfg.ChangedFilesPath)
			},
		},
		{
			name: "git refs resolve the repository root",
			mutate: func(in *ConfigRawInput) {
				in.BaseRef = "main"
			},
			setupMock: func(m *MockGitClient) {
				m.On("GetRepoRoot", mock.Anything, mock.Anything).Return("/mock/repo/root", nil)
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.GitSource, cfg.Source)
				assert.Equal(t, "HEAD", cfg.TargetRef)
				assert.Equal(t, "/mock/repo/root", cfg.RepoPath)
			},
		},
		{
			name:        "target ref without base ref",
			mutate:      func(in *ConfigRawInput) { in.TargetRef = "feature" },
			expectError: true,
		},
		{
			name: "git root failure",
			mutate: func(in *ConfigRawInput) {
				in.BaseRef = "main"
			},
			setupMock: func(m *MockGitClient) {
				m.On("GetRepoRoot", mock.Anything, mock.Anything).Return("", errors.New("not a repo"))
			},
			expectError: true,
		},
		{
			name: "pull request source",
			mutate: func(in *ConfigRawInput) {
				in.PRNumber = 12
				in.Repository = "octo/repo"
				in.CommitSHA = "abc123"
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.GitHubSource, cfg.Source)
				assert.Equal(t, "https://github.com/octo/repo", cfg.RepoURL)
				assert.Equal(t, "https://github.com/octo/repo/commit/abc123", cfg.CommitURL())
			},
		},
		{
			name: "pull request without repository",
			mutate: func(in *ConfigRawInput) {
				in.PRNumber = 12
			},
			expectError: true,
		},
		{
			name:        "negative pull request",
			mutate:      func(in *ConfigRawInput) { in.PRNumber = -2 },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := baseInput()
			if tt.mutate != nil {
				tt.mutate(input)
			}
			client := new(MockGitClient)
			if tt.setupMock != nil {
				tt.setupMock(client)
			}

			cfg := &Config{}
			err := ProcessAndValidate(context.Background(), cfg, client, input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
			client.AssertExpectations(t)
		})
	}
}

func TestProcessAndValidateEventPayload(t *testing.T) {
	eventPath := filepath.Join(t.TempDir(), "event.json")
	payload := `{
		"number": 5,
		"pull_request": {"number": 5, "head": {"sha": "1234567890"}},
		"repository": {"full_name": "jgillick/test-coverage-reporter", "html_url": "https://github.com/jgillick/test-coverage-reporter"}
	}`
	require.NoError(t, os.WriteFile(eventPath, []byte(payload), 0o600))

	input := baseInput()
	input.EventPath = eventPath
	input.CommitSHA = "merge-sha"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(context.Background(), cfg, new(MockGitClient), input))

	assert.Equal(t, 5, cfg.PRNumber)
	assert.Equal(t, "1234567890", cfg.CommitSHA)
	assert.Equal(t, "jgillick/test-coverage-reporter", cfg.Repository)
	assert.Equal(t, schema.GitHubSource, cfg.Source)
	assert.Equal(t, "https://github.com/jgillick/test-coverage-reporter/commit/1234567890", cfg.CommitURL())
}

func TestProcessAndValidateMissingEventPayload(t *testing.T) {
	input := baseInput()
	input.EventPath = filepath.Join(t.TempDir(), "missing.json")
	err := ProcessAndValidate(context.Background(), &Config{}, new(MockGitClient), input)
	assert.Error(t, err)
}

func TestRequireCoverageFile(t *testing.T) {
	assert.Error(t, RequireCoverageFile(&Config{}))
	assert.Error(t, RequireCoverageFile(&Config{CoverageFile: "  "}))
	assert.NoError(t, RequireCoverageFile(&Config{CoverageFile: "coverage.json"}))
}

func TestOwnerAndName(t *testing.T) {
	owner, name, err := (&Config{Repository: "octo/repo"}).OwnerAndName()
	require.NoError(t, err)
	assert.Equal(t, "octo", owner)
	assert.Equal(t, "repo", name)

	for _, bad := range []string{"", "octo", "octo/", "/repo", "a/b/c"} {
		_, _, err := (&Config{Repository: bad}).OwnerAndName()
		assert.ErrorIs(t, err, schema.ErrMissingRepository, bad)
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Excludes: []string{"vendor/"}, Title: "x"}
	clone := cfg.Clone()
	clone.Excludes[0] = "changed/"
	clone.Title = "y"

	assert.Equal(t, "vendor/", cfg.Excludes[0])
	assert.Equal(t, "x", cfg.Title)
}

// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/coverdelta/schema"
)

// GitClient defines the Git operations needed to scope a report to a change set.
// This allows the core logic to be tested without a real repository.
type GitClient interface {
	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// GetChangedFilesBetweenRefs returns repository-relative paths that differ between two refs.
	GetChangedFilesBetweenRefs(ctx context.Context, repoPath string, baseRef string, targetRef string) ([]string, error)
}

// FileLister returns the repository-relative files that make up the change set.
type FileLister interface {
	ListFiles(ctx context.Context) ([]string, error)
}

// CoverageLoader reads a coverage summary report from disk.
type CoverageLoader interface {
	Load(ctx context.Context, path string) (schema.CoverageReport, error)
}

// Publisher pushes a rendered report back to the code host.
type Publisher interface {
	// UpsertComment updates the marked comment on the pull request or creates it.
	UpsertComment(ctx context.Context, prNumber int, body string) error

	// CreateCheckRun records a completed check run for the given commit.
	CreateCheckRun(ctx context.Context, headSHA string, failed bool, summary string) error
}

// Package filelist provides the sources of the tracked file set.
package filelist

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/huangsam/coverdelta/internal/contract"
	"github.com/huangsam/coverdelta/internal/github"
	"github.com/huangsam/coverdelta/schema"
	"github.com/samber/lo"
)

// StdinPath selects standard input as the list source.
const StdinPath = "-"

// ListLister reads a newline-delimited file list.
type ListLister struct {
	Path  string
	stdin io.Reader
}

// GitLister lists the files that differ between two refs of a local repository.
type GitLister struct {
	Client    contract.GitClient
	RepoPath  string
	BaseRef   string
	TargetRef string
}

// PullRequestFiles is the part of the GitHub client used to list pull request files.
type PullRequestFiles interface {
	ListPullRequestFiles(ctx context.Context, prNumber int) ([]github.PullRequestFile, error)
}

// PullRequestLister lists the files of a pull request.
type PullRequestLister struct {
	Client   PullRequestFiles
	PRNumber int
}

// StaticLister returns a fixed file list.
type StaticLister struct {
	Files []string
}

// Compile-time checks
var (
	_ contract.FileLister = &StaticLister{}
	_ contract.FileLister = &ListLister{}
	_ contract.FileLister = &GitLister{}
	_ contract.FileLister = &PullRequestLister{}
)

// ListFiles returns the configured files without blanks or duplicates.
func (s *StaticLister) ListFiles(_ context.Context) ([]string, error) {
	files := lo.Map(s.Files, func(f string, _ int) string { return strings.TrimSpace(f) })
	return lo.Uniq(lo.Compact(files)), nil
}

// NewListLister reads the list at path, or standard input when path is "-".
func NewListLister(path string) *ListLister {
	return &ListLister{Path: path, stdin: os.Stdin}
}

// ListFiles returns the non-blank, trimmed lines of the list.
func (l *ListLister) ListFiles(_ context.Context) ([]string, error) {
	if l.Path == StdinPath {
		return readList(l.stdin)
	}
	f, err := os.Open(l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open changed files list: %w", err)
	}
	defer func() { _ = f.Close() }()
	return readList(f)
}

// ListFiles returns the files changed between BaseRef and TargetRef.
func (g *GitLister) ListFiles(ctx context.Context) ([]string, error) {
	files, err := g.Client.GetChangedFilesBetweenRefs(ctx, g.RepoPath, g.BaseRef, g.TargetRef)
	if err != nil {
		return nil, fmt.Errorf("failed to get changed files between %q and %q: %w. Verify both refs exist in the repository", g.BaseRef, g.TargetRef, err)
	}
	return files, nil
}

// ListFiles returns the file names of the pull request.
func (p *PullRequestLister) ListFiles(ctx context.Context) ([]string, error) {
	files, err := p.Client.ListPullRequestFiles(ctx, p.PRNumber)
	if err != nil {
		return nil, err
	}
	return lo.Map(files, func(f github.PullRequestFile, _ int) string {
		return f.Filename
	}), nil
}

// NewFromConfig selects the lister matching the configured file source.
// It returns nil when no source is configured.
func NewFromConfig(cfg *contract.Config, client contract.GitClient) (contract.FileLister, error) {
	switch cfg.Source {
	case schema.ListSource:
		return NewListLister(cfg.ChangedFilesPath), nil
	case schema.GitSource:
		return &GitLister{Client: client, RepoPath: cfg.RepoPath, BaseRef: cfg.BaseRef, TargetRef: cfg.TargetRef}, nil
	case schema.GitHubSource:
		gh, err := github.NewClientFromConfig(cfg)
		if err != nil {
			return nil, err
		}
		return &PullRequestLister{Client: gh, PRNumber: cfg.PRNumber}, nil
	default:
		return nil, nil
	}
}

// readList parses a newline-delimited list, skipping blank lines and duplicates.
func readList(r io.Reader) ([]string, error) {
	var files []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			files = append(files, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read changed files list: %w", err)
	}
	return lo.Uniq(files), nil
}

package contract

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/samber/lo"
)

// LocalGitClient implements the GitClient interface by reading the
// repository on disk through go-git. No git binary is required.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// open finds the repository containing path, walking up to the nearest .git directory.
func (c *LocalGitClient) open(path string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("cannot open git repository at %q: %w. If this is not a Git repository, verify the path or run 'git init'", path, err)
	}
	return repo, nil
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(_ context.Context, contextPath string) (string, error) {
	repo, err := c.open(contextPath)
	if err != nil {
		return "", err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("repository at %q has no worktree: %w", contextPath, err)
	}
	return filepath.Abs(wt.Filesystem.Root())
}

// GetChangedFilesBetweenRefs implements the GitClient interface.
// It compares the trees of baseRef and targetRef, which matches the file list of
// "git diff --name-only base..target". Renamed files are reported under both names.
func (c *LocalGitClient) GetChangedFilesBetweenRefs(ctx context.Context, repoPath string, baseRef string, targetRef string) ([]string, error) {
	repo, err := c.open(repoPath)
	if err != nil {
		return nil, err
	}
	baseTree, err := treeAt(repo, baseRef)
	if err != nil {
		return nil, err
	}
	targetTree, err := treeAt(repo, targetRef)
	if err != nil {
		return nil, err
	}

	changes, err := baseTree.DiffContext(ctx, targetTree)
	if err != nil {
		return nil, fmt.Errorf("failed to diff %q and %q: %w", baseRef, targetRef, err)
	}

	var files []string
	for _, change := range changes {
		files = append(files, change.From.Name, change.To.Name)
	}
	files = lo.Uniq(lo.Compact(files))
	sort.Strings(files)
	return files, nil
}

// treeAt resolves ref to the tree of its commit.
func treeAt(repo *git.Repository, ref string) (*object.Tree, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve ref %q: %w", ref, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("cannot load commit for %q: %w", ref, err)
	}
	return commit.Tree()
}

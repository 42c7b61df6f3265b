package filelist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/coverdelta/internal/contract"
	"github.com/huangsam/coverdelta/internal/github"
	"github.com/huangsam/coverdelta/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePullRequestFiles struct {
	files []github.PullRequestFile
	err   error
}

func (f *fakePullRequestFiles) ListPullRequestFiles(_ context.Context, _ int) ([]github.PullRequestFile, error) {
	return f.files, f.err
}

func TestStaticLister(t *testing.T) {
	lister := &StaticLister{Files: []string{" src/a.ts", "", "src/b.ts", "src/a.ts"}}
	files, err := lister.ListFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.ts", "src/b.ts"}, files)
}

func TestListListerFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "changed.txt")
	require.NoError(t, os.WriteFile(path, []byte("src/a.ts\n\n  src/b.ts  \nsrc/a.ts\r\n"), 0o600))

	files, err := NewListLister(path).ListFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.ts", "src/b.ts"}, files)
}

func TestListListerFromStdin(t *testing.T) {
	lister := &ListLister{Path: StdinPath, stdin: strings.NewReader("one.go\ntwo.go\n")}

	files, err := lister.ListFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"one.go", "two.go"}, files)
}

func TestListListerMissingFile(t *testing.T) {
	_, err := NewListLister(filepath.Join(t.TempDir(), "missing.txt")).ListFiles(context.Background())
	assert.Error(t, err)
}

func TestGitLister(t *testing.T) {
	ctx := context.Background()
	client := new(contract.MockGitClient)
	client.On("GetChangedFilesBetweenRefs", ctx, "/repo", "main", "HEAD").Return([]string{"a.go", "b.go"}, nil).Once()

	files, err := (&GitLister{Client: client, RepoPath: "/repo", BaseRef: "main", TargetRef: "HEAD"}).ListFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "b.go"}, files)
	client.AssertExpectations(t)

	failing := new(contract.MockGitClient)
	failing.On("GetChangedFilesBetweenRefs", ctx, "/repo", "nope", "HEAD").Return(nil, errors.New("bad revision")).Once()
	_, err = (&GitLister{Client: failing, RepoPath: "/repo", BaseRef: "nope", TargetRef: "HEAD"}).ListFiles(ctx)
	assert.ErrorContains(t, err, "bad revision")
}

func TestPullRequestLister(t *testing.T) {
	lister := &PullRequestLister{
		Client:   &fakePullRequestFiles{files: []github.PullRequestFile{{Filename: "src/a.ts"}, {Filename: "src/b/c.ts"}}},
		PRNumber: 5,
	}
	files, err := lister.ListFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.ts", "src/b/c.ts"}, files)

	lister.Client = &fakePullRequestFiles{err: errors.New("boom")}
	_, err = lister.ListFiles(context.Background())
	assert.Error(t, err)
}

func TestNewFromConfig(t *testing.T) {
	client := new(contract.MockGitClient)

	lister, err := NewFromConfig(&contract.Config{Source: schema.ListSource, ChangedFilesPath: "-"}, client)
	require.NoError(t, err)
	assert.IsType(t, &ListLister{}, lister)

	lister, err = NewFromConfig(&contract.Config{Source: schema.GitSource, BaseRef: "main", TargetRef: "HEAD"}, client)
	require.NoError(t, err)
	assert.IsType(t, &GitLister{}, lister)

	lister, err = NewFromConfig(&contract.Config{Source: schema.GitHubSource, Repository: "octo/repo", PRNumber: 3}, client)
	require.NoError(t, err)
	assert.IsType(t, &PullRequestLister{}, lister)

	lister, err = NewFromConfig(&contract.Config{Source: schema.NoSource}, client)
	require.NoError(t, err)
	assert.Nil(t, lister)

	_, err = NewFromConfig(&contract.Config{Source: schema.GitHubSource, Repository: "broken"}, client)
	assert.ErrorIs(t, err, schema.ErrMissingRepository)
}

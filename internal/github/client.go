// Package github talks to the GitHub REST API for pull request files, comments and check runs.
package github

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/huangsam/coverdelta/internal/contract"
	"github.com/huangsam/coverdelta/schema"
)

// Check run values reported for a coverage run.
const (
	CheckRunTitle = "Test Coverage Report Summary"
	pageSize      = 100
)

// linkNextPattern extracts the rel="next" target of a Link header.
var linkNextPattern = regexp.MustCompile(`<([^>]+)>;\s*rel="next"`)

// PullRequestFile is one entry of the pull request files listing.
type PullRequestFile struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
	SHA      string `json:"sha"`
}

// IssueComment is one pull request conversation comment.
type IssueComment struct {
	ID   int64  `json:"id"`
	Body string `json:"body"`
}

type commentPayload struct {
	Body string `json:"body"`
}

type checkRunOutput struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

type checkRunPayload struct {
	Name       string         `json:"name"`
	HeadSHA    string         `json:"head_sha"`
	Status     string         `json:"status"`
	Conclusion string         `json:"conclusion"`
	Output     checkRunOutput `json:"output"`
}

// Client is a minimal GitHub REST client scoped to one repository.
type Client struct {
	baseURL    string
	owner      string
	repo       string
	token      string
	identifier string
	http       *http.Client
}

var _ contract.Publisher = &Client{} // Compile-time check

// NewClient creates a client for owner/repo against the API at baseURL.
func NewClient(baseURL, owner, repo, token string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		owner:      owner,
		repo:       repo,
		token:      token,
		identifier: schema.CommentIdentifier,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewClientFromConfig creates a client from the validated configuration.
func NewClientFromConfig(cfg *contract.Config) (*Client, error) {
	owner, repo, err := cfg.OwnerAndName()
	if err != nil {
		return nil, err
	}
	return NewClient(cfg.APIURL, owner, repo, cfg.GitHubToken), nil
}

// ListPullRequestFiles returns every file of the pull request, following pagination.
func (c *Client) ListPullRequestFiles(ctx context.Context, prNumber int) ([]PullRequestFile, error) {
	next := fmt.Sprintf("%s/pulls/%d/files?per_page=%d", c.repoURL(), prNumber, pageSize)
	var files []PullRequestFile
	for next != "" {
		var page []PullRequestFile
		header, err := c.do(ctx, http.MethodGet, next, nil, &page)
		if err != nil {
			return nil, fmt.Errorf("failed to list files of pull request #%d: %w", prNumber, err)
		}
		files = append(files, page...)
		next = nextPage(header)
	}
	contract.Logger().Debugf("Pull request #%d has %d files", prNumber, len(files))
	return files, nil
}

// FindComment returns the first comment whose body starts with the report identifier.
func (c *Client) FindComment(ctx context.Context, prNumber int) (*IssueComment, error) {
	next := fmt.Sprintf("%s/issues/%d/comments?per_page=%d", c.repoURL(), prNumber, pageSize)
	for next != "" {
		var page []IssueComment
		header, err := c.do(ctx, http.MethodGet, next, nil, &page)
		if err != nil {
			return nil, fmt.Errorf("failed to list comments of pull request #%d: %w", prNumber, err)
		}
		for i := range page {
			if strings.HasPrefix(page[i].Body, c.identifier) {
				return &page[i], nil
			}
		}
		next = nextPage(header)
	}
	return nil, nil
}

// UpsertComment updates the existing report comment or creates a new one.
func (c *Client) UpsertComment(ctx context.Context, prNumber int, body string) error {
	if prNumber <= 0 {
		return schema.ErrNoPullRequest
	}
	existing, err := c.FindComment(ctx, prNumber)
	if err != nil {
		return err
	}
	payload := commentPayload{Body: body}
	if existing != nil {
		contract.Logger().Infof("Updating comment %d on pull request #%d", existing.ID, prNumber)
		endpoint := fmt.Sprintf("%s/issues/comments/%d", c.repoURL(), existing.ID)
		if _, err := c.do(ctx, http.MethodPatch, endpoint, payload, nil); err != nil {
			return fmt.Errorf("failed to update comment %d: %w", existing.ID, err)
		}
		return nil
	}
	contract.Logger().Infof("Creating comment on pull request #%d", prNumber)
	endpoint := fmt.Sprintf("%s/issues/%d/comments", c.repoURL(), prNumber)
	if _, err := c.do(ctx, http.MethodPost, endpoint, payload, nil); err != nil {
		return fmt.Errorf("failed to create comment on pull request #%d: %w", prNumber, err)
	}
	return nil
}

// CreateCheckRun records a completed check run carrying the report as its summary.
func (c *Client) CreateCheckRun(ctx context.Context, headSHA string, failed bool, summary string) error {
	if headSHA == "" {
		return fmt.Errorf("check run requires a commit sha")
	}
	conclusion := "success"
	if failed {
		conclusion = "failure"
	}
	payload := checkRunPayload{
		Name:       schema.CheckRunName,
		HeadSHA:    headSHA,
		Status:     "completed",
		Conclusion: conclusion,
		Output:     checkRunOutput{Title: CheckRunTitle, Summary: summary},
	}
	contract.Logger().Infof("Creating %s check run for %s (%s)", schema.CheckRunName, headSHA, conclusion)
	if _, err := c.do(ctx, http.MethodPost, c.repoURL()+"/check-runs", payload, nil); err != nil {
		return fmt.Errorf("failed to create check run: %w", err)
	}
	return nil
}

// FileURL links a pull request file to its anchor in the "Files changed" view.
func FileURL(repoURL string, prNumber int, path string) string {
	sum := sha256.Sum256([]byte(path))
	return fmt.Sprintf("%s/pull/%d/files#diff-%s", strings.TrimSuffix(repoURL, "/"), prNumber, hex.EncodeToString(sum[:]))
}

// repoURL returns the API root of the repository.
func (c *Client) repoURL() string {
	return fmt.Sprintf("%s/repos/%s/%s", c.baseURL, url.PathEscape(c.owner), url.PathEscape(c.repo))
}

// do sends a JSON request and decodes the JSON response into out when set.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) (http.Header, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%s %s returned %d: %s", method, endpoint, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("failed to decode response of %s: %w", endpoint, err)
		}
	}
	return resp.Header, nil
}

// nextPage returns the URL of the next page, or "" on the last page.
func nextPage(header http.Header) string {
	for _, link := range header.Values("Link") {
		if m := linkNextPattern.FindStringSubmatch(link); m != nil {
			return m[1]
		}
	}
	return ""
}

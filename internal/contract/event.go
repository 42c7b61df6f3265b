package contract

import (
	"encoding/json"
	"fmt"
	"os"
)

// PullRequestEvent is the subset of a GitHub Actions event payload used to
// locate the pull request under review.
type PullRequestEvent struct {
	Number      int `json:"number"`
	PullRequest *struct {
		Number int `json:"number"`
		Head   struct {
			SHA string `json:"sha"`
		} `json:"head"`
	} `json:"pull_request"`
	Repository *struct {
		FullName string `json:"full_name"`
		HTMLURL  string `json:"html_url"`
	} `json:"repository"`
}

// PRNumber returns the pull request number, or 0 for non pull request events.
func (e *PullRequestEvent) PRNumber() int {
	if e.PullRequest != nil && e.PullRequest.Number > 0 {
		return e.PullRequest.Number
	}
	return e.Number
}

// HeadSHA returns the head commit of the pull request, if any.
func (e *PullRequestEvent) HeadSHA() string {
	if e.PullRequest != nil {
		return e.PullRequest.Head.SHA
	}
	return ""
}

// LoadPullRequestEvent reads the event payload written by the Actions runner.
func LoadPullRequestEvent(path string) (*PullRequestEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read event payload %q: %w", path, err)
	}
	var event PullRequestEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("cannot parse event payload %q: %w", path, err)
	}
	return &event, nil
}

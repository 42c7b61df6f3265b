package schema

import "errors"

// Sentinel errors shared across packages.
var (
	// ErrMalformedReport means the coverage file is not a summary report, even after conversion.
	ErrMalformedReport = errors.New("cannot generate a summary report from the coverage file")

	// ErrCoverageRegressed means at least one file dropped past the configured threshold.
	ErrCoverageRegressed = errors.New("coverage regressed past the fail threshold")

	// ErrNoPullRequest means a pull request was required but none could be determined.
	ErrNoPullRequest = errors.New("no pull request number available")

	// ErrMissingRepository means the owner/name of the repository is unknown.
	ErrMissingRepository = errors.New("repository must be set as owner/name")
)

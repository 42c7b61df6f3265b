// Package core has core logic for path reconciliation, diffing and classification.
package core

import (
	"context"
	"fmt"

	"github.com/huangsam/coverdelta/internal/contract"
	"github.com/huangsam/coverdelta/internal/filelist"
	"github.com/huangsam/coverdelta/internal/github"
	"github.com/huangsam/coverdelta/internal/loader"
	"github.com/huangsam/coverdelta/internal/outwriter"
	"github.com/huangsam/coverdelta/schema"
)

// Dependencies holds the collaborators of a coverage run.
type Dependencies struct {
	Loader    contract.CoverageLoader
	Lister    contract.FileLister // nil means no file is tracked
	Publisher contract.Publisher  // only needed for the comment mode
}

// ExecutorFunc defines the function signature for executing different run modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, deps Dependencies) error

// NewDependencies wires the production collaborators for a validated config.
func NewDependencies(cfg *contract.Config, client contract.GitClient) (Dependencies, error) {
	lister, err := filelist.NewFromConfig(cfg, client)
	if err != nil {
		return Dependencies{}, err
	}
	deps := Dependencies{
		Loader: loader.NewLoader(cfg.ConvertCommand),
		Lister: lister,
	}
	if cfg.Repository != "" {
		publisher, err := github.NewClientFromConfig(cfg)
		if err != nil {
			return Dependencies{}, err
		}
		deps.Publisher = publisher
	}
	return deps, nil
}

// GetCoverageResults runs the whole pipeline and returns the result without printing it.
func GetCoverageResults(ctx context.Context, cfg *contract.Config, deps Dependencies) (*schema.RunResult, error) {
	builder, err := NewReportBuilder(ctx, cfg, deps).LoadCoverage()
	if err != nil {
		return nil, err
	}
	builder, err = builder.ResolveTrackedFiles()
	if err != nil {
		return nil, err
	}
	return builder.
		ReconcilePaths().
		ComputeDiff().
		Classify().
		BuildResult().
		GetResult(), nil
}

// ExecuteReport writes the coverage summary in the configured output format.
// A regression is logged but does not fail the run.
func ExecuteReport(ctx context.Context, cfg *contract.Config, deps Dependencies) error {
	result, err := GetCoverageResults(ctx, cfg, deps)
	if err != nil {
		return err
	}
	if err := outwriter.NewOutWriter().WriteReport(result, cfg); err != nil {
		return err
	}
	if result.View.Failed {
		contract.Logger().Warn(*result.View.FailureMessage)
	}
	return nil
}

// ExecuteCheck prints a concise summary and fails when coverage regressed.
// It serves as the main entry point for CI gating.
func ExecuteCheck(ctx context.Context, cfg *contract.Config, deps Dependencies) error {
	result, err := GetCoverageResults(ctx, cfg, deps)
	if err != nil {
		return err
	}
	if err := outwriter.NewOutWriter().WriteCheck(result, cfg); err != nil {
		return err
	}
	return regressionError(result)
}

// ExecuteComment posts the markdown summary to the pull request and optionally records a check run.
func ExecuteComment(ctx context.Context, cfg *contract.Config, deps Dependencies) error {
	if deps.Publisher == nil {
		return fmt.Errorf("cannot post a comment: %w", schema.ErrMissingRepository)
	}
	if cfg.PRNumber <= 0 {
		return schema.ErrNoPullRequest
	}
	result, err := GetCoverageResults(ctx, cfg, deps)
	if err != nil {
		return err
	}

	body, err := outwriter.NewOutWriter().RenderComment(result)
	if err != nil {
		return err
	}
	if err := deps.Publisher.UpsertComment(ctx, cfg.PRNumber, body); err != nil {
		return fmt.Errorf("failed to post comment: %w", err)
	}
	contract.Logger().Infof("Posted coverage report to pull request #%d", cfg.PRNumber)

	if cfg.CheckRun {
		if err := deps.Publisher.CreateCheckRun(ctx, cfg.CommitSHA, result.View.Failed, body); err != nil {
			return fmt.Errorf("failed to create check run: %w", err)
		}
		contract.Logger().Infof("Created %s check run for %s", schema.CheckRunName, cfg.CommitSHA)
	}
	return regressionError(result)
}

// regressionError wraps the failure message of a failed run.
func regressionError(result *schema.RunResult) error {
	if !result.View.Failed {
		return nil
	}
	msg := ""
	if result.View.FailureMessage != nil {
		msg = *result.View.FailureMessage
	}
	return fmt.Errorf("%w: %s", schema.ErrCoverageRegressed, msg)
}

package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/coverdelta/internal/contract"
	"github.com/huangsam/coverdelta/internal/github"
	"github.com/huangsam/coverdelta/internal/loader"
	"github.com/huangsam/coverdelta/schema"
	"github.com/samber/lo"
)

// ReportBuilder builds the coverage run result using a builder pattern.
type ReportBuilder struct {
	ctx        context.Context
	cfg        *contract.Config
	deps       Dependencies
	start      time.Time
	target     schema.CoverageReport
	base       schema.CoverageReport
	hasBase    bool
	tracked    []string
	reconciler *PathReconciler
	prefix     string
	diff       schema.DiffResult
	view       schema.PresentationView
	result     *schema.RunResult
}

// NewReportBuilder creates a new builder for a coverage run.
func NewReportBuilder(ctx context.Context, cfg *contract.Config, deps Dependencies) *ReportBuilder {
	return &ReportBuilder{
		ctx:   ctx,
		cfg:   cfg,
		deps:  deps,
		start: time.Now(),
	}
}

// LoadCoverage reads the target report and, when configured, the base report.
func (b *ReportBuilder) LoadCoverage() (*ReportBuilder, error) {
	if b.deps.Loader == nil {
		return nil, fmt.Errorf("no coverage loader configured")
	}
	b.progress("Loading coverage files")

	target, err := b.deps.Loader.Load(b.ctx, b.cfg.CoverageFile)
	if err != nil {
		return nil, err
	}
	if !target.HasTotal() {
		return nil, fmt.Errorf("%s: %w", b.cfg.CoverageFile, schema.ErrMalformedReport)
	}
	b.target = target

	b.base, b.hasBase, err = loader.LoadOptional(b.ctx, b.deps.Loader, b.cfg.BaseCoverageFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load base coverage: %w", err)
	}
	return b, nil
}

// ResolveTrackedFiles lists the change set and drops excluded paths.
func (b *ReportBuilder) ResolveTrackedFiles() (*ReportBuilder, error) {
	if b.deps.Lister == nil {
		contract.Logger().Debugf("No file source configured, no file is tracked")
		return b, nil
	}
	b.progress("Listing tracked files")

	files, err := b.deps.Lister.ListFiles(b.ctx)
	if err != nil {
		return nil, err
	}
	b.tracked = lo.Filter(files, func(f string, _ int) bool {
		return !contract.ShouldIgnore(f, b.cfg.Excludes)
	})
	contract.Logger().Debugf("Tracking %d of %d listed files", len(b.tracked), len(files))
	return b, nil
}

// ReconcilePaths aligns report keys with the tracked files.
func (b *ReportBuilder) ReconcilePaths() *ReportBuilder {
	b.reconciler = NewPathReconciler(b.tracked, b.target)
	if b.reconciler.Prefix == "" && len(b.tracked) > 0 && !b.anyTracked() {
		contract.LogWarn("Path prefix unresolved", fmt.Errorf("none of the %d tracked files matched a coverage report key", len(b.tracked)))
	}

	b.prefix = b.cfg.StripPathPrefix
	if b.prefix == "" {
		b.prefix = b.reconciler.Prefix
	}
	contract.Logger().Debugf("Reconciled path prefix %q, display prefix %q", b.reconciler.Prefix, b.prefix)
	return b
}

// ComputeDiff compares the target report against the base report.
func (b *ReportBuilder) ComputeDiff() *ReportBuilder {
	b.progress("Generating diff report")
	b.diff = GenerateDiff(b.target, b.base, b.reconciler.IsTracked, b.hasBase)
	return b
}

// Classify buckets the diff and evaluates the fail threshold.
func (b *ReportBuilder) Classify() *ReportBuilder {
	b.progress("Generating summary")
	b.view = Classify(b.diff, ClassifyOptions{
		StripPrefix:        b.prefix,
		MinChangeMagnitude: b.cfg.MinChange,
		FailThreshold:      b.cfg.FailThreshold,
		TrackedOnly:        b.cfg.TrackedOnly,
		FileURL:            b.fileURL(),
	})
	return b
}

// BuildResult assembles the final run result.
func (b *ReportBuilder) BuildResult() *ReportBuilder {
	b.result = &schema.RunResult{
		View: b.view,
		Diff: b.diff,
		Context: schema.ReportContext{
			Title:         b.cfg.Title,
			CustomMessage: b.cfg.CustomMessage,
			CommitSHA:     b.cfg.CommitSHA,
			CommitURL:     b.cfg.CommitURL(),
			Identifier:    schema.CommentIdentifier,
			HasDiffs:      b.hasBase,
		},
		Prefix:       b.prefix,
		TrackedFiles: b.reconciler.Files(),
		Source:       b.cfg.Source,
		Duration:     time.Since(b.start),
	}
	return b
}

// GetResult returns the built result, or nil before BuildResult.
func (b *ReportBuilder) GetResult() *schema.RunResult {
	return b.result
}

// fileURL links tracked files to the pull request diff when the run targets a pull request.
func (b *ReportBuilder) fileURL() func(string) string {
	if b.cfg.Source != schema.GitHubSource || b.cfg.RepoURL == "" || b.cfg.PRNumber <= 0 {
		return nil
	}
	return func(key string) string {
		if !b.reconciler.IsTracked(key) {
			return ""
		}
		return github.FileURL(b.cfg.RepoURL, b.cfg.PRNumber, b.reconciler.RelativePath(key))
	}
}

// anyTracked reports whether at least one report key is tracked.
func (b *ReportBuilder) anyTracked() bool {
	return lo.SomeBy(b.target.FileKeys(), b.reconciler.IsTracked)
}

// progress logs a step unless the caller asked for a quiet run.
func (b *ReportBuilder) progress(msg string) {
	if shouldSuppressHeader(b.ctx) {
		contract.Logger().Debug(msg)
		return
	}
	contract.Logger().Info(msg)
}

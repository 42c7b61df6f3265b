package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/coverdelta/core"
	"github.com/huangsam/coverdelta/internal/contract"
	"github.com/huangsam/coverdelta/internal/filelist"
	"github.com/huangsam/coverdelta/internal/outwriter"
	"github.com/huangsam/coverdelta/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	newDeps DependencyFactory
}

// checkResponse is the compact answer of the coverage_check tool.
type checkResponse struct {
	Passed         bool    `json:"passed"`
	FailureMessage *string `json:"failure_message"`
	WorstDelta     float64 `json:"worst_delta"`
	TotalLines     string  `json:"total_lines"`
	Changed        int     `json:"changed"`
}

func (h *toolHandler) handleCoverageDiff(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.TrackedOnly = request.GetBool("tracked_only", cfg.TrackedOnly)

	result, errResult := h.run(ctx, cfg, request)
	if errResult != nil {
		return errResult, nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCoverageCheck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()

	result, errResult := h.run(ctx, cfg, request)
	if errResult != nil {
		return errResult, nil
	}

	jsonData, _ := json.MarshalIndent(checkResponse{
		Passed:         !result.View.Failed,
		FailureMessage: result.View.FailureMessage,
		WorstDelta:     result.View.WorstDelta,
		TotalLines:     result.View.Total.Lines.Percent,
		Changed:        len(result.View.Changed),
	}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleRenderComment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if title := request.GetString("title", ""); title != "" {
		cfg.Title = title
	}

	result, errResult := h.run(ctx, cfg, request)
	if errResult != nil {
		return errResult, nil
	}

	body, err := outwriter.RenderMarkdown(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render failed: %v", err)), nil
	}
	return mcp.NewToolResultText(body), nil
}

// run applies the shared tool arguments and executes the coverage pipeline.
// Tool failures are returned as an error result rather than a Go error.
func (h *toolHandler) run(ctx context.Context, cfg *contract.Config, request mcp.CallToolRequest) (*schema.RunResult, *mcp.CallToolResult) {
	if err := applyRunArguments(cfg, request); err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err))
	}

	deps, err := h.newDeps(cfg)
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("setup failed: %v", err))
	}
	if files := contract.SplitList(request.GetString("changed_files", "")); len(files) > 0 {
		cfg.Source = schema.ListSource
		deps.Lister = &filelist.StaticLister{Files: files}
	}

	result, err := core.GetCoverageResults(core.WithSuppressHeader(ctx), cfg, deps)
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("coverage run failed: %v", err))
	}
	return result, nil
}

// applyRunArguments copies and validates the arguments shared by every tool.
func applyRunArguments(cfg *contract.Config, request mcp.CallToolRequest) error {
	cfg.CoverageFile = strings.TrimSpace(request.GetString("coverage_file", ""))
	if err := contract.RequireCoverageFile(cfg); err != nil {
		return err
	}
	cfg.BaseCoverageFile = strings.TrimSpace(request.GetString("base_coverage_file", cfg.BaseCoverageFile))
	cfg.StripPathPrefix = request.GetString("strip_path_prefix", cfg.StripPathPrefix)

	minChange := request.GetFloat("min_change", cfg.MinChange)
	if minChange < 0 {
		return fmt.Errorf("min_change cannot be negative (received %.2f)", minChange)
	}
	cfg.MinChange = minChange

	threshold := request.GetFloat("fail_threshold", cfg.FailThreshold)
	if threshold < -100 || threshold > 100 {
		return fmt.Errorf("fail_threshold must be between -100 and 100 (received %.2f)", threshold)
	}
	cfg.FailThreshold = threshold
	return nil
}

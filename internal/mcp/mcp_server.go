// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/coverdelta/core"
	"github.com/huangsam/coverdelta/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DependencyFactory builds the run collaborators for a per-call config.
type DependencyFactory func(cfg *contract.Config) (core.Dependencies, error)

// NewMCPServer initializes and configures the coverage MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, newDeps DependencyFactory) *server.MCPServer {
	s := server.NewMCPServer(
		"Coverage Delta Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		newDeps: newDeps,
	}

	// --- 1. Tool: coverage_diff ---
	s.AddTool(mcp.NewTool("coverage_diff",
		append(runOptions("Compare a coverage summary against a base summary, file by file."),
			mcp.WithBoolean("tracked_only", mcp.Description("Only list tracked files as changed.")),
		)...,
	), h.handleCoverageDiff)

	// --- 2. Tool: coverage_check ---
	s.AddTool(mcp.NewTool("coverage_check",
		append(runOptions("Check whether coverage dropped past a threshold for any file."),
			mcp.WithNumber("fail_threshold", mcp.Description("Fail when any metric drops by this many points or more (0 disables)."), mcp.Required()),
		)...,
	), h.handleCoverageCheck)

	// --- 3. Tool: render_comment ---
	s.AddTool(mcp.NewTool("render_comment",
		append(runOptions("Render the markdown pull request comment for a coverage run."),
			mcp.WithString("title", mcp.Description("Heading of the comment.")),
			mcp.WithNumber("fail_threshold", mcp.Description("Threshold used to flag the comment as failed.")),
		)...,
	), h.handleRenderComment)

	return s
}

// runOptions returns the options shared by every coverage tool.
func runOptions(description string) []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithDescription(description),
		mcp.WithString("coverage_file", mcp.Description("Path to the coverage summary of the change."), mcp.Required()),
		mcp.WithString("base_coverage_file", mcp.Description("Path to the coverage summary of the base branch.")),
		mcp.WithString("changed_files", mcp.Description("Comma-separated repository paths that make up the change.")),
		mcp.WithString("strip_path_prefix", mcp.Description("Prefix removed from report keys for display (derived when empty).")),
		mcp.WithNumber("min_change", mcp.Description("Smallest delta that marks a file as changed. Defaults to 0.1.")),
	}
}

// StartMCPServer starts the coverage MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, newDeps DependencyFactory) error {
	s := NewMCPServer(baseCfg, newDeps)
	return server.ServeStdio(s)
}

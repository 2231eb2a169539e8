package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/melkeydev/bookdash/dashboard"
	"github.com/melkeydev/bookdash/render"
	"github.com/spf13/cast"
)

// AnalysisResult is what run_analysis and query_database return.
type AnalysisResult struct {
	Analysis dashboard.ID      `json:"analysis" yaml:"analysis"`
	Outcome  dashboard.Outcome `json:"outcome" yaml:"outcome"`
	Blocks   []render.Block    `json:"blocks" yaml:"blocks"`
}

// ListHandler creates a handler for the list_analyses tool
func ListHandler() func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonData, err := json.MarshalIndent(dashboard.Catalog(), "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal results: %v", err)), nil
		}

		return mcp.NewToolResultText(string(jsonData)), nil
	}
}

// AnalysisHandler creates a handler for the run_analysis tool
func AnalysisHandler(controller *dashboard.Controller) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("analysis")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Missing analysis parameter: %v", err)), nil
		}

		id, err := dashboard.ParseID(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		sel := dashboard.Selection{Analysis: id}
		if args, ok := request.Params.Arguments.(map[string]any); ok {
			if option, exists := args["option"]; exists {
				sel.Option = cast.ToInt(option)
			}
			if input, exists := args["input"]; exists {
				sel.Input = cast.ToString(input)
			}
		}

		return run(ctx, controller, sel)
	}
}

// QueryHandler creates a handler for the query_database tool
func QueryHandler(controller *dashboard.Controller) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Missing query parameter: %v", err)), nil
		}

		return run(ctx, controller, dashboard.Selection{
			Analysis: dashboard.CustomQuery,
			Input:    query,
		})
	}
}

func run(ctx context.Context, controller *dashboard.Controller, sel dashboard.Selection) (*mcp.CallToolResult, error) {
	doc := render.NewDocument()

	outcome, err := controller.Run(ctx, sel, doc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Analysis failed: %v", err)), nil
	}

	jsonData, err := json.MarshalIndent(AnalysisResult{
		Analysis: sel.Analysis,
		Outcome:  outcome,
		Blocks:   doc.Blocks,
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal results: %v", err)), nil
	}

	if outcome.Kind == dashboard.OutcomeFailed {
		return mcp.NewToolResultError(string(jsonData)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

package mcp

import (
	goMCP "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/melkeydev/bookdash/dashboard"
	"github.com/melkeydev/bookdash/handlers"
)

func analysisIDs() []string {
	var ids []string
	for _, a := range dashboard.Catalog() {
		ids = append(ids, string(a.ID))
	}
	return ids
}

func RegisterTools(s *server.MCPServer, controller *dashboard.Controller) {
	// List tool
	listTool := goMCP.NewTool("list_analyses",
		goMCP.WithDescription("List the available book store analyses with their options and inputs"),
	)

	// Analysis tool
	analysisTool := goMCP.NewTool("run_analysis",
		goMCP.WithDescription("Run one of the fixed book store analyses and return its headings, tables, charts and errors"),
		goMCP.WithString("analysis",
			goMCP.Required(),
			goMCP.Description("Analysis id"),
			goMCP.Enum(analysisIDs()...),
		),
		goMCP.WithNumber("option",
			goMCP.Description("Index of the radio option for analyses that have one (default: 0)"),
		),
		goMCP.WithString("input",
			goMCP.Description("Keyword for the title search, or SQL for the custom query"),
		),
	)

	// Query tool
	queryTool := goMCP.NewTool("query_database",
		goMCP.WithDescription("Execute a SQL query against the book table inside a read-only transaction that is always rolled back"),
		goMCP.WithString("query",
			goMCP.Required(),
			goMCP.Description("SQL query to execute (SELECT statements only)"),
		),
	)

	s.AddTool(listTool, handlers.ListHandler())
	s.AddTool(analysisTool, handlers.AnalysisHandler(controller))
	s.AddTool(queryTool, handlers.QueryHandler(controller))
}

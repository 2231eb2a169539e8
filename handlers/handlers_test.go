package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/melkeydev/bookdash/dashboard"
	"github.com/melkeydev/bookdash/render"
	"github.com/melkeydev/bookdash/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	queries []string
	args    [][]any
	result  *types.QueryResult
	err     error
}

func (s *stubRunner) Run(_ context.Context, query string, args ...any) (*types.QueryResult, error) {
	s.queries = append(s.queries, query)
	s.args = append(s.args, args)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestListHandler(t *testing.T) {
	result, err := ListHandler()(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var analyses []dashboard.Analysis
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &analyses))
	assert.Len(t, analyses, 11)
	assert.Equal(t, dashboard.Overview, analyses[0].ID)
}

func TestAnalysisHandler(t *testing.T) {
	tests := []struct {
		name        string
		runner      *stubRunner
		args        map[string]any
		wantError   bool
		wantOutcome dashboard.OutcomeKind
		wantArgs    []any
	}{
		{
			name: "pie for formats",
			runner: &stubRunner{result: &types.QueryResult{
				Columns: []string{"book_format", "total_books"},
				Rows:    [][]any{{"Ebook", int64(120)}, {"Physical Book", int64(300)}},
			}},
			args:        map[string]any{"analysis": "formats"},
			wantOutcome: dashboard.OutcomeRows,
		},
		{
			name: "keyword is bound",
			runner: &stubRunner{result: &types.QueryResult{
				Columns: []string{"book_title", "price"},
				Rows:    [][]any{{"Dune", "9.99"}},
			}},
			args:        map[string]any{"analysis": "search", "input": "Dune' OR '1'='1"},
			wantOutcome: dashboard.OutcomeRows,
			wantArgs:    []any{"%Dune' OR '1'='1%"},
		},
		{
			name:        "option given as float",
			runner:      &stubRunner{result: &types.QueryResult{Columns: []string{"publisher", "avg_rating"}, Rows: [][]any{}}},
			args:        map[string]any{"analysis": "Publisher Statistics", "option": float64(1)},
			wantOutcome: dashboard.OutcomeEmpty,
		},
		{
			name:        "query failure",
			runner:      &stubRunner{err: errors.New("connection refused")},
			args:        map[string]any{"analysis": "authors"},
			wantError:   true,
			wantOutcome: dashboard.OutcomeFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller := dashboard.NewController(tt.runner, dashboard.Options{Table: "life_new1"})

			result, err := AnalysisHandler(controller)(context.Background(), callRequest(tt.args))
			require.NoError(t, err)
			assert.Equal(t, tt.wantError, result.IsError)

			var out AnalysisResult
			require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
			assert.Equal(t, tt.wantOutcome, out.Outcome.Kind)
			if tt.wantArgs != nil {
				require.Len(t, tt.runner.args, 1)
				assert.Equal(t, tt.wantArgs, tt.runner.args[0])
			}
		})
	}
}

func TestAnalysisHandler_BadRequests(t *testing.T) {
	controller := dashboard.NewController(&stubRunner{}, dashboard.Options{Table: "life_new1"})
	handler := AnalysisHandler(controller)

	result, err := handler(context.Background(), callRequest(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Missing analysis parameter")

	result, err = handler(context.Background(), callRequest(map[string]any{"analysis": "sales"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "unknown analysis")

	result, err = handler(context.Background(), callRequest(map[string]any{"analysis": "publishers", "option": 5}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "invalid option")
}

func TestQueryHandler(t *testing.T) {
	runner := &stubRunner{result: &types.QueryResult{
		Columns: []string{"n"},
		Rows:    [][]any{{int64(42)}},
	}}
	controller := dashboard.NewController(runner, dashboard.Options{Table: "life_new1"})

	result, err := QueryHandler(controller)(context.Background(), callRequest(map[string]any{"query": "SELECT COUNT(*) AS n FROM life_new1"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, []string{"SELECT COUNT(*) AS n FROM life_new1"}, runner.queries)

	var out AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	assert.Equal(t, dashboard.CustomQuery, out.Analysis)
	require.Len(t, out.Blocks, 2)
	assert.Equal(t, render.BlockDataFrame, out.Blocks[1].Kind)

	result, err = QueryHandler(controller)(context.Background(), callRequest(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

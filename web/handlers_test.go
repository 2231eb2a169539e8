package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/melkeydev/bookdash/dashboard"
	"github.com/melkeydev/bookdash/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	queries []string
	result  *types.QueryResult
	err     error
}

func (s *stubRunner) Run(_ context.Context, query string, _ ...any) (*types.QueryResult, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newTestServer(runner dashboard.QueryRunner) *httptest.Server {
	controller := dashboard.NewController(runner, dashboard.Options{Table: "life_new1"})
	srv := NewServer(Config{Controller: controller, Title: "Allwyn Book Store Analysis"})
	return httptest.NewServer(srv.Router())
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestPage(t *testing.T) {
	ts := newTestServer(&stubRunner{})
	defer ts.Close()

	status, body := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Allwyn Book Store Analysis")
	assert.Contains(t, body, "Availability of eBooks vs Physical Books")
	assert.Contains(t, body, "Custom Query")
	assert.Contains(t, body, "Welcome to the Book Analysis Dashboard")
}

func TestPage_SelectedAnalysis(t *testing.T) {
	runner := &stubRunner{result: &types.QueryResult{
		Columns: []string{"title", "retail_price"},
		Rows:    [][]any{{"The <Atlas>", 250.0}},
	}}
	ts := newTestServer(runner)
	defer ts.Close()

	status, body := get(t, ts.URL+"/?analysis=top-books")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Top 5 Most Expensive Books")
	assert.Contains(t, body, "The &lt;Atlas&gt;")
	assert.Len(t, runner.queries, 1)
}

func TestPage_UnknownAnalysis(t *testing.T) {
	ts := newTestServer(&stubRunner{})
	defer ts.Close()

	status, _ := get(t, ts.URL+"/?analysis=sales")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAnalysisSSE(t *testing.T) {
	tests := []struct {
		name        string
		runner      *stubRunner
		path        string
		signals     string
		contains    []string
		notContains []string
		wantQueries int
	}{
		{
			name: "pie chart as svg",
			runner: &stubRunner{result: &types.QueryResult{
				Columns: []string{"book_format", "total_books"},
				Rows:    [][]any{{"Ebook", int64(120)}, {"Physical Book", int64(300)}},
			}},
			path:        "/analysis/formats",
			signals:     `{"analysis":"formats","option":0,"input":""}`,
			contains:    []string{"datastar-patch-elements", "<svg"},
			wantQueries: 1,
		},
		{
			name:        "blank keyword issues no query",
			runner:      &stubRunner{},
			path:        "/analysis/search",
			signals:     `{"analysis":"search","option":0,"input":""}`,
			contains:    []string{"Filter Books by Criteria", "Enter keyword to search in titles:"},
			notContains: []string{"<table"},
			wantQueries: 0,
		},
		{
			name:        "failed custom query shows the notice",
			runner:      &stubRunner{err: errors.New("You have an error in your SQL syntax")},
			path:        "/analysis/custom",
			signals:     `{"analysis":"custom","option":0,"input":"SELEC 1"}`,
			contains:    []string{"Error: You have an error in your SQL syntax"},
			notContains: []string{"class=\"grid\""},
			wantQueries: 1,
		},
		{
			name: "radio option arrives as a string",
			runner: &stubRunner{result: &types.QueryResult{
				Columns: []string{"publisher", "avg_rating"},
				Rows:    [][]any{{"Tor", "4.20"}},
			}},
			path:        "/analysis/publishers",
			signals:     `{"analysis":"publishers","option":"1","input":""}`,
			contains:    []string{"Highest Average Rating", "<svg"},
			wantQueries: 1,
		},
		{
			name:        "unknown analysis",
			runner:      &stubRunner{},
			path:        "/analysis/sales",
			signals:     `{}`,
			contains:    []string{"unknown analysis"},
			wantQueries: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(tt.runner)
			defer ts.Close()

			status, body := get(t, ts.URL+tt.path+"?datastar="+url.QueryEscape(tt.signals))
			assert.Equal(t, http.StatusOK, status)
			for _, s := range tt.contains {
				assert.Contains(t, body, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, body, s)
			}
			assert.Len(t, tt.runner.queries, tt.wantQueries)
		})
	}
}

func TestAnalysisSSE_OptionSelectsQuery(t *testing.T) {
	runner := &stubRunner{result: &types.QueryResult{Columns: []string{"publisher", "cnt"}, Rows: [][]any{}}}
	ts := newTestServer(runner)
	defer ts.Close()

	_, _ = get(t, ts.URL+"/analysis/publishers?datastar="+url.QueryEscape(`{"analysis":"publishers","option":1}`))
	require.Len(t, runner.queries, 1)
	assert.True(t, strings.Contains(runner.queries[0], "HAVING COUNT(*) > 10"))
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(&stubRunner{})
	defer ts.Close()

	status, body := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body)
}

package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/melkeydev/bookdash/types"
)

// QueryRunner executes one SQL text and returns every row.
type QueryRunner interface {
	Run(ctx context.Context, query string, args ...any) (*types.QueryResult, error)
}

type OutcomeKind string

const (
	// OutcomeStatic is a text-only entry; nothing was queried.
	OutcomeStatic OutcomeKind = "static"
	// OutcomeSkipped means a required input was blank and no query ran.
	OutcomeSkipped OutcomeKind = "skipped"
	OutcomeEmpty   OutcomeKind = "empty"
	OutcomeRows    OutcomeKind = "rows"
	OutcomeFailed  OutcomeKind = "failed"
)

// Outcome keeps "no rows" and "query failed" apart even though neither
// draws anything besides the error notice.
type Outcome struct {
	Kind  OutcomeKind `json:"kind" yaml:"kind"`
	Rows  int         `json:"rows,omitempty" yaml:"rows,omitempty"`
	Error string      `json:"error,omitempty" yaml:"error,omitempty"`
}

type Options struct {
	Table       string
	Placeholder sq.PlaceholderFormat
	Logger      *slog.Logger
}

type Controller struct {
	runner  QueryRunner
	builder sq.StatementBuilderType
	table   string
	logger  *slog.Logger
}

func NewController(runner QueryRunner, opts Options) *Controller {
	if opts.Placeholder == nil {
		opts.Placeholder = sq.Question
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Controller{
		runner:  runner,
		builder: sq.StatementBuilder.PlaceholderFormat(opts.Placeholder),
		table:   opts.Table,
		logger:  opts.Logger,
	}
}

// Table returns the table every analysis reads from.
func (c *Controller) Table() string {
	return c.table
}

// Statement builds the SQL a selection would issue without running it.
func (c *Controller) Statement(sel Selection) (Statement, bool, error) {
	a, ok := Lookup(sel.Analysis)
	if !ok {
		return Statement{}, false, fmt.Errorf("%w: %q", ErrUnknownAnalysis, sel.Analysis)
	}
	return a.Statement(c.builder, c.table, sel)
}

// Run performs one analysis. Query and chart failures are shown through
// r.Error and reported as OutcomeFailed; the returned error is reserved for
// bad selections and renderer failures.
func (c *Controller) Run(ctx context.Context, sel Selection, r Renderer) (Outcome, error) {
	a, ok := Lookup(sel.Analysis)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownAnalysis, sel.Analysis)
	}

	logger := c.logger.With("analysis", a.ID, "run_id", uuid.NewString())

	if err := r.Heading(a.Heading); err != nil {
		return Outcome{}, err
	}

	if a.Static() {
		return Outcome{Kind: OutcomeStatic}, r.Markdown(a.Text)
	}

	stmt, ok, err := a.Statement(c.builder, c.table, sel)
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		logger.Debug("input required, skipping query")
		return Outcome{Kind: OutcomeSkipped}, nil
	}

	res, err := c.runner.Run(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		logger.Error("query failed", "error", err)
		return c.fail(r, err)
	}

	if res.Empty() {
		logger.Debug("query returned no rows")
		return Outcome{Kind: OutcomeEmpty}, nil
	}

	if err := a.render(r, res); err != nil {
		logger.Error("render failed", "error", err)
		return c.fail(r, err)
	}

	logger.Debug("analysis rendered", "rows", res.Len())
	return Outcome{Kind: OutcomeRows, Rows: res.Len()}, nil
}

func (c *Controller) fail(r Renderer, err error) (Outcome, error) {
	return Outcome{Kind: OutcomeFailed, Error: err.Error()}, r.Error(err)
}

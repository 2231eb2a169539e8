package databases

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/melkeydev/bookdash/config"
	"github.com/melkeydev/bookdash/databases/mysql"
	"github.com/melkeydev/bookdash/databases/postgres"
	"github.com/melkeydev/bookdash/databases/sqlite"
	"github.com/melkeydev/bookdash/types"
)

// Opener acquires a fresh database handle. The runner closes it after a
// single query.
type Opener func(ctx context.Context) (*sqlx.DB, error)

// Runner executes one SQL text per call on its own connection and returns
// the fully materialised result.
type Runner struct {
	driver string
	open   Opener
	logger *slog.Logger
}

func NewRunner(driver string, open Opener, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		driver: driver,
		open:   open,
		logger: logger,
	}
}

// NewConnector builds a Runner for the configured database type.
func NewConnector(cfg config.DatabaseConfig, logger *slog.Logger) (*Runner, error) {
	connStr, err := cfg.GetConnectionString()
	if err != nil {
		return nil, err
	}

	var open Opener
	switch cfg.DBType {
	case "mysql":
		open, err = mysql.NewOpener(connStr)
	case "postgres":
		open, err = postgres.NewOpener(connStr)
	case "sqlite":
		open, err = sqlite.NewOpener(connStr)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.DBType)
	}
	if err != nil {
		return nil, err
	}

	return NewRunner(cfg.DBType, open, logger), nil
}

// Run opens a connection, executes query inside a read-only transaction,
// reads every row and releases the connection. The transaction is always
// rolled back, so nothing a query changes is kept.
func (r *Runner) Run(ctx context.Context, query string, args ...any) (*types.QueryResult, error) {
	start := time.Now()

	db, err := r.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			r.logger.Warn("failed to close connection", "driver", r.driver, "error", err)
		}
	}()

	tx, err := db.BeginTxx(ctx, &sql.TxOptions{
		ReadOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("BeginTx failed with error: %w", err)
	}

	result, err := r.query(ctx, tx, query, args)
	if rerr := tx.Rollback(); rerr != nil && err == nil {
		return nil, fmt.Errorf("failed to end transaction: %w", rerr)
	}
	if err != nil {
		return nil, err
	}

	r.logger.Debug("query finished",
		"driver", r.driver,
		"rows", result.Len(),
		"duration", time.Since(start),
	)

	return result, nil
}

func (r *Runner) query(ctx context.Context, tx *sqlx.Tx, query string, args []any) (*types.QueryResult, error) {
	rows, err := tx.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unable to query db: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("unable to read columns: %w", err)
	}

	result := &types.QueryResult{
		Columns: columns,
		Rows:    [][]any{},
	}
	for rows.Next() {
		row, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("unable to scan row: %w", err)
		}
		for i := range row {
			row[i] = types.Normalize(row[i])
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to read rows: %w", err)
	}

	return result, nil
}

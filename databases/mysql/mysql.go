package mysql

import (
	"context"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// NewOpener validates the DSN once and returns a function that opens a new
// single-connection handle per call.
func NewOpener(connectionString string) (func(context.Context) (*sqlx.DB, error), error) {
	cfg, err := mysql.ParseDSN(connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	cfg.ParseTime = true
	dsn := cfg.FormatDSN()

	return func(ctx context.Context) (*sqlx.DB, error) {
		db, err := sqlx.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		db.SetMaxOpenConns(1)

		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}

		return db, nil
	}, nil
}

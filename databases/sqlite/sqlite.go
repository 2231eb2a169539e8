package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// NewOpener opens file with PRAGMA query_only set, since go-sqlite3 ignores
// read-only transaction options.
func NewOpener(file string) (func(context.Context) (*sqlx.DB, error), error) {
	if file == "" {
		return nil, fmt.Errorf("sqlite file is required")
	}

	dsn := file
	if strings.Contains(dsn, "?") {
		dsn += "&_query_only=true"
	} else {
		dsn += "?_query_only=true"
	}

	return func(ctx context.Context) (*sqlx.DB, error) {
		db, err := sqlx.Open("sqlite3", dsn)
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

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
)

func NewOpener(connectionString string) (func(context.Context) (*sqlx.DB, error), error) {
	config, err := pgx.ParseConfig(connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	config.PreferSimpleProtocol = true

	return func(ctx context.Context) (*sqlx.DB, error) {
		db := sqlx.NewDb(stdlib.OpenDB(*config), "pgx")
		db.SetMaxOpenConns(1)

		// Test the connection
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}

		return db, nil
	}, nil
}

// Package database opens the console's local libSQL store. The schema is
// tiny (sessions and their sealed credentials) but every authenticated
// request reads it, so the connection is tuned for readers alongside the
// occasional session write.
package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/tursodatabase/go-libsql"
)

func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("libsql", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	// PRAGMAs go through QueryContext: libSQL refuses Exec for the ones
	// that answer with a row, and draining rows also covers the silent ones.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		rows, err := db.QueryContext(ctx, pragma)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("applying %s: %w", pragma, err)
		}
		rows.Close()
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return db, nil
}

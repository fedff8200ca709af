// Package migrations owns the console's local schema, which is just the
// session store. The SQL files are embedded so a deployed binary migrates
// itself on startup.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var sqlFiles embed.FS

// Run brings db up to the latest schema version.
func Run(db *sql.DB) error {
	goose.SetBaseFS(sqlFiles)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("selecting sqlite dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// Package migrations creates and seeds the local ERP mirror schema. This is
// a development convenience: production deployments point the portal at a
// mirror maintained by the ERP sync process.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var embedMigrations embed.FS

const sqliteDialect = "sqlite3"

// Up runs all pending embedded migrations.
func Up(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect(sqliteDialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "sql"); err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}
	return nil
}

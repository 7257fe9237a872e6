// Package migrate applies embedded SQL migrations on startup.
package migrate

import (
	"context"
	"database/sql"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"reqwire/migrations"
)

// Up runs all pending migrations from the embedded filesystem. The table
// prefix is substituted into the SQL via goose ENVSUB so each environment
// (dev_, test_, prod_) gets its own set of tables in one database.
func Up(ctx context.Context, dsn, tablePrefix string) error {
	if err := os.Setenv("REQWIRE_TABLE_PREFIX", tablePrefix); err != nil {
		return err
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	goose.SetTableName(tablePrefix + "goose_db_version")
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}

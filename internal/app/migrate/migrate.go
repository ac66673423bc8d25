// Package migrate applies the embedded schema migrations with goose.
package migrate

import (
	"context"
	"database/sql"

	"github.com/LinkingTom/CustomIdP/migrations"
	"github.com/LinkingTom/CustomIdP/pkg/errutils"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Up brings the schema to the latest version. goose needs a database/sql
// handle, so it opens its own short-lived connection via the pgx stdlib
// driver rather than reusing the pool.
func Up(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return errutils.Wrap("failed to open DB for migrations", err)
	}
	defer func() {
		_ = db.Close()
	}()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return errutils.Wrap("failed to set goose dialect", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return errutils.Wrap("failed to apply migrations", err)
	}

	return nil
}

package journal

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/dmitrijs2005/fitroom/internal/dbx"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func migrationsDir(d dbx.Dialect) string {
	if d == dbx.Postgres {
		return "migrations/postgres"
	}
	return "migrations/sqlite"
}

// RunMigrations applies the embedded schema for the given dialect.
func RunMigrations(ctx context.Context, db *sql.DB, d dbx.Dialect) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(string(d)); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, migrationsDir(d)); err != nil {
		return fmt.Errorf("migrate journal: %w", err)
	}
	return nil
}

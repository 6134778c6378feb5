package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fitroom/internal/dbx"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Open connects to the journal database, applies migrations and returns a
// ready repository together with the underlying handle.
func Open(ctx context.Context, d dbx.Dialect, dsn string) (*Repository, *sql.DB, error) {
	if d == dbx.SQLite {
		dsn = sqliteDSN(dsn)
	}

	db, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}

	if d == dbx.SQLite {
		// a single connection keeps ":memory:" databases alive and serialises writers
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db ping error: %w", err)
	}

	if err := RunMigrations(ctx, db, d); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	return NewRepository(db, d), db, nil
}

func sqliteDSN(dsn string) string {
	switch {
	case dsn == "":
		return ":memory:"
	case dsn == ":memory:", strings.HasPrefix(dsn, "file:"), strings.Contains(dsn, "?"):
		return dsn
	}
	return "file:" + dsn + "?_pragma=busy_timeout(5000)"
}

package journal

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/fitroom/internal/dbx"
	"github.com/pressly/goose/v3"
)

func newPostgresWithMock(t *testing.T) (*Repository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	repo := NewRepository(db, dbx.Postgres)
	repo.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }
	repo.newID = func() string { return "11111111-1111-1111-1111-111111111111" }
	return repo, mock, db
}

func TestPostgres_Create(t *testing.T) {
	repo, mock, db := newPostgresWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+tryon_jobs\b.*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7,\s*\$8,\s*\$9\)$`
	mock.ExpectExec(q).
		WithArgs("11111111-1111-1111-1111-111111111111", "", "u1", "created", "", "", "", int64(1_700_000_000_000), int64(1_700_000_000_000)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	e, err := repo.Create(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Status != StatusCreated {
		t.Fatalf("status = %q", e.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgres_MarkSubmitted_LocksRow(t *testing.T) {
	repo, mock, db := newPostgresWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`^SELECT status FROM tryon_jobs WHERE id = \$1 FOR UPDATE$`).
		WithArgs("j1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("created"))
	mock.ExpectExec(`^UPDATE tryon_jobs SET status = \$1, task_id = \$2, updated_at = \$3 WHERE id = \$4$`).
		WithArgs("submitted", "task-9", sqlmock.AnyArg(), "j1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.MarkSubmitted(context.Background(), "j1", "task-9"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgres_MarkSucceeded_Terminal_RollsBack(t *testing.T) {
	repo, mock, db := newPostgresWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`^SELECT status FROM tryon_jobs WHERE id = \$1 FOR UPDATE$`).
		WithArgs("j1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("failed"))
	mock.ExpectRollback()

	err := repo.MarkSucceeded(context.Background(), "j1", "u", "k")
	if !errors.Is(err, ErrTerminal) {
		t.Fatalf("expected ErrTerminal, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgres_MarkFailed_NotFound(t *testing.T) {
	repo, mock, db := newPostgresWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`^SELECT status FROM tryon_jobs`).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := repo.MarkFailed(context.Background(), "nope", "x")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgres_ListByUser(t *testing.T) {
	repo, mock, db := newPostgresWithMock(t)
	defer db.Close()

	cols := []string{"id", "task_id", "user_id", "status", "result_url", "result_key", "error_message", "created_at", "updated_at"}
	mock.ExpectQuery(`(?s)^SELECT .* FROM tryon_jobs WHERE user_id = \$1 ORDER BY created_at DESC, id LIMIT \$2$`).
		WithArgs("u1", 5).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("b", "t2", "u1", "submitted", "", "", "", int64(2000), int64(2000)).
			AddRow("a", "t1", "u1", "succeeded", "https://r", "k", "", int64(1000), int64(1500)))

	got, err := repo.ListByUser(context.Background(), "u1", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "b" || got[1].Status != StatusSucceeded {
		t.Fatalf("unexpected entries: %+v", got)
	}
	if !got[1].CreatedAt.Equal(time.UnixMilli(1000)) {
		t.Fatalf("created_at = %v", got[1].CreatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRunMigrations_UsesDialectDir(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	defer db.Close()

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	var dirs []string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		dirs = append(dirs, dir)
		return nil
	}

	if err := RunMigrations(context.Background(), db, dbx.Postgres); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := RunMigrations(context.Background(), db, dbx.SQLite); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dirs) != 2 || dirs[0] != "migrations/postgres" || dirs[1] != "migrations/sqlite" {
		t.Fatalf("dirs = %v", dirs)
	}

	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	if err := RunMigrations(context.Background(), db, dbx.Postgres); err == nil {
		t.Fatal("expected migration error")
	}
}

func TestSQLiteDSN(t *testing.T) {
	cases := map[string]string{
		"":                  ":memory:",
		":memory:":          ":memory:",
		"file:x.db?mode=ro": "file:x.db?mode=ro",
		"fitroom.db":        "file:fitroom.db?_pragma=busy_timeout(5000)",
	}
	for in, want := range cases {
		if got := sqliteDSN(in); got != want {
			t.Errorf("sqliteDSN(%q) = %q, want %q", in, got, want)
		}
	}
}

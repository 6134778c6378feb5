package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fitroom/internal/dbx"
	"github.com/google/uuid"
)

const entryColumns = `id, task_id, user_id, status, result_url, result_key, error_message, created_at, updated_at`

// Repository implements Journal over database/sql. Queries are written with
// "?" placeholders and rebound for the configured dialect.
type Repository struct {
	db      *sql.DB
	dialect dbx.Dialect
	now     func() time.Time
	newID   func() string
}

func NewRepository(db *sql.DB, dialect dbx.Dialect) *Repository {
	return &Repository{
		db:      db,
		dialect: dialect,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
}

func (r *Repository) q(query string) string {
	return r.dialect.Rebind(query)
}

// Create inserts a new entry in the created state.
func (r *Repository) Create(ctx context.Context, userID string) (*Entry, error) {
	now := r.now().UTC().Truncate(time.Millisecond)
	e := &Entry{
		ID:        r.newID(),
		UserID:    userID,
		Status:    StatusCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `INSERT INTO tryon_jobs (` + entryColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, r.q(query),
		e.ID, e.TaskID, e.UserID, string(e.Status), e.ResultURL, e.ResultKey, e.ErrorMessage,
		now.UnixMilli(), now.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("insert journal entry: %w", err)
	}
	return e, nil
}

func (r *Repository) MarkSubmitted(ctx context.Context, id, taskID string) error {
	return r.transition(ctx, id, StatusSubmitted,
		`UPDATE tryon_jobs SET status = ?, task_id = ?, updated_at = ? WHERE id = ?`,
		func(updatedAt int64) []any {
			return []any{string(StatusSubmitted), taskID, updatedAt, id}
		})
}

func (r *Repository) MarkSucceeded(ctx context.Context, id, resultURL, resultKey string) error {
	return r.transition(ctx, id, StatusSucceeded,
		`UPDATE tryon_jobs SET status = ?, result_url = ?, result_key = ?, updated_at = ? WHERE id = ?`,
		func(updatedAt int64) []any {
			return []any{string(StatusSucceeded), resultURL, resultKey, updatedAt, id}
		})
}

func (r *Repository) MarkFailed(ctx context.Context, id, message string) error {
	return r.transition(ctx, id, StatusFailed,
		`UPDATE tryon_jobs SET status = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		func(updatedAt int64) []any {
			return []any{string(StatusFailed), message, updatedAt, id}
		})
}

// transition reads the current status and applies the update in one
// transaction so that concurrent writers cannot move an entry backwards.
func (r *Repository) transition(ctx context.Context, id string, to Status, update string, args func(int64) []any) error {
	lock := ""
	if r.dialect == dbx.Postgres {
		lock = " FOR UPDATE"
	}

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var current string
		err := tx.QueryRowContext(ctx, r.q(`SELECT status FROM tryon_jobs WHERE id = ?`+lock), id).Scan(&current)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("read journal status: %w", err)
		}

		if err := canMove(Status(current), to); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, r.q(update), args(r.now().UTC().UnixMilli())...); err != nil {
			return fmt.Errorf("update journal entry: %w", err)
		}
		return nil
	})
}

func (r *Repository) Get(ctx context.Context, id string) (*Entry, error) {
	row := r.db.QueryRowContext(ctx, r.q(`SELECT `+entryColumns+` FROM tryon_jobs WHERE id = ?`), id)
	return scanEntry(row)
}

func (r *Repository) GetByTaskID(ctx context.Context, taskID string) (*Entry, error) {
	if taskID == "" {
		return nil, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, r.q(`SELECT `+entryColumns+` FROM tryon_jobs WHERE task_id = ?`), taskID)
	return scanEntry(row)
}

// ListByUser returns the user's entries, newest first. A non-positive limit
// returns everything.
func (r *Repository) ListByUser(ctx context.Context, userID string, limit int) ([]*Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM tryon_jobs WHERE user_id = ? ORDER BY created_at DESC, id`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, r.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	return entries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*Entry, error) {
	var (
		e                Entry
		status           string
		created, updated int64
	)
	err := s.Scan(&e.ID, &e.TaskID, &e.UserID, &status, &e.ResultURL, &e.ResultKey, &e.ErrorMessage, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan journal entry: %w", err)
	}
	e.Status = Status(status)
	e.CreatedAt = time.UnixMilli(created).UTC()
	e.UpdatedAt = time.UnixMilli(updated).UTC()
	return &e, nil
}

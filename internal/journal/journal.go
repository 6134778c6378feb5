// Package journal records the lifecycle of every try-on job: created when the
// request is accepted, submitted once the remote service returned a task id,
// and finally succeeded or failed. Entries live in SQLite for the CLI and in
// PostgreSQL for the HTTP server.
package journal

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("journal entry not found")
	ErrTerminal          = errors.New("journal entry already finished")
	ErrInvalidTransition = errors.New("invalid journal status transition")
)

type Status string

const (
	StatusCreated   Status = "created"
	StatusSubmitted Status = "submitted"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// next lists the statuses reachable from a non-terminal status.
var next = map[Status][]Status{
	StatusCreated:   {StatusSubmitted, StatusFailed},
	StatusSubmitted: {StatusSucceeded, StatusFailed},
}

func canMove(from, to Status) error {
	if from.Terminal() {
		return ErrTerminal
	}
	for _, s := range next[from] {
		if s == to {
			return nil
		}
	}
	return ErrInvalidTransition
}

type Entry struct {
	ID           string    `json:"id"`
	TaskID       string    `json:"task_id,omitempty"`
	UserID       string    `json:"user_id"`
	Status       Status    `json:"status"`
	ResultURL    string    `json:"result_url,omitempty"`
	ResultKey    string    `json:"result_key,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Journal is the contract the orchestrator and the API depend on.
type Journal interface {
	Create(ctx context.Context, userID string) (*Entry, error)
	MarkSubmitted(ctx context.Context, id, taskID string) error
	MarkSucceeded(ctx context.Context, id, resultURL, resultKey string) error
	MarkFailed(ctx context.Context, id, message string) error
	Get(ctx context.Context, id string) (*Entry, error)
	GetByTaskID(ctx context.Context, taskID string) (*Entry, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*Entry, error)
}

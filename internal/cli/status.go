package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fitroom/internal/journal"
	"github.com/dmitrijs2005/fitroom/internal/tryon"
)

func (a *App) status(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: status <task-id>")
		return errUsage
	}
	taskID := args[0]

	if err := a.ensureCredentials(); err != nil {
		return a.fail(err)
	}

	c, err := a.open(ctx)
	if err != nil {
		return a.fail(err)
	}

	res, err := c.Kling.Status(ctx, taskID)
	if err != nil {
		fmt.Fprintln(a.out, tryon.UserMessage(err))
		return err
	}

	fmt.Fprintf(a.out, "Task:   %s\n", taskID)
	fmt.Fprintf(a.out, "Status: %s (%s)\n", res.State, res.Status)
	if res.URL != "" {
		fmt.Fprintf(a.out, "Result: %s\n", res.URL)
	}
	if res.Message != "" {
		fmt.Fprintf(a.out, "Detail: %s\n", res.Message)
	}

	entry, err := c.Journal.GetByTaskID(ctx, taskID)
	switch {
	case errors.Is(err, journal.ErrNotFound):
	case err != nil:
		a.log.Warn(ctx, "journal lookup failed", "task_id", taskID, "error", err)
	default:
		fmt.Fprintf(a.out, "Local:  %s, updated %s\n", entry.Status, entry.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	}

	return nil
}

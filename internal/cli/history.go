package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
)

func (a *App) history(ctx context.Context, args []string) error {
	fs := a.newFlagSet("history")
	limit := fs.Int("n", 20, "number of entries, 0 for all")
	user := fs.String("user", defaultUser, "user id")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	c, err := a.open(ctx)
	if err != nil {
		return a.fail(err)
	}

	entries, err := c.Journal.ListByUser(ctx, *user, *limit)
	if err != nil {
		return a.fail(err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No try-on jobs yet.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tTASK\tSTATUS\tDETAIL")
	for _, e := range entries {
		detail := e.ResultKey
		if e.ErrorMessage != "" {
			detail = e.ErrorMessage
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.CreatedAt.Local().Format("2006-01-02 15:04"), dash(e.TaskID), e.Status, detail)
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

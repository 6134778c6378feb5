package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dmitrijs2005/fitroom/internal/tryon"
)

func (a *App) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func (a *App) generate(ctx context.Context, args []string) error {
	fs := a.newFlagSet("generate")
	photo := fs.String("photo", "", "photo of the person")
	garment := fs.String("garment", "", "single garment image")
	upper := fs.String("upper", "", "upper garment image")
	lower := fs.String("lower", "", "lower garment image")
	out := fs.String("out", "", "copy the result to this file")
	user := fs.String("user", defaultUser, "user id recorded in the journal")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if *photo == "" {
		fmt.Fprintln(a.out, "Usage: generate -photo FILE (-garment FILE | -upper FILE -lower FILE) [-out FILE]")
		return errUsage
	}

	userPhoto, err := os.ReadFile(*photo)
	if err != nil {
		return a.fail(err)
	}

	sel, err := readSelection(*garment, *upper, *lower)
	if err != nil {
		return a.fail(err)
	}
	if err := sel.Validate(); err != nil {
		fmt.Fprintln(a.out, tryon.UserMessage(err))
		return errUsage
	}

	if err := a.ensureCredentials(); err != nil {
		return a.fail(err)
	}

	c, err := a.open(ctx)
	if err != nil {
		return a.fail(err)
	}

	fmt.Fprintln(a.out, "Generating try-on image, this can take a minute...")

	job := c.Runner.Start(ctx, *user, userPhoto, sel)
	result, err := job.Wait(ctx)
	if err != nil {
		fmt.Fprintln(a.out, tryon.UserMessage(err))
		return err
	}

	fmt.Fprintf(a.out, "Task:   %s\n", result.TaskID)
	fmt.Fprintf(a.out, "Size:   %d bytes\n", result.Size)
	if result.Path != "" {
		fmt.Fprintf(a.out, "Stored: %s\n", result.Path)
	} else {
		fmt.Fprintf(a.out, "Stored: %s\n", result.URL)
	}

	if *out != "" {
		data, err := c.Scratch.Read(ctx, result.Key)
		if err != nil {
			return a.fail(err)
		}
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			return a.fail(err)
		}
		fmt.Fprintf(a.out, "Saved:  %s\n", *out)
	}

	return nil
}

func readSelection(garment, upper, lower string) (tryon.Selection, error) {
	var sel tryon.Selection
	for _, f := range []struct {
		path string
		dst  *[]byte
	}{
		{garment, &sel.Garment},
		{upper, &sel.Upper},
		{lower, &sel.Lower},
	} {
		if f.path == "" {
			continue
		}
		data, err := os.ReadFile(f.path)
		if err != nil {
			return tryon.Selection{}, err
		}
		*f.dst = data
	}
	return sel, nil
}

func (a *App) fail(err error) error {
	fmt.Fprintln(a.out, "Error:", err)
	return err
}

package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/fitroom/internal/outfits"
)

const outfitsUsage = "Usage: outfits list [-category C] | save -name N -image FILE | delete ID | favorite ID true|false"

func (a *App) outfits(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, outfitsUsage)
		return errUsage
	}

	switch args[0] {
	case "list":
		return a.listOutfits(ctx, args[1:])
	case "save":
		return a.saveOutfit(ctx, args[1:])
	case "delete":
		return a.deleteOutfit(ctx, args[1:])
	case "favorite":
		return a.favoriteOutfit(ctx, args[1:])
	default:
		fmt.Fprintln(a.out, outfitsUsage)
		return errUsage
	}
}

func (a *App) listOutfits(ctx context.Context, args []string) error {
	fs := a.newFlagSet("outfits list")
	category := fs.String("category", outfits.CategoryAll, "one of: "+strings.Join(outfits.Categories, ", "))
	user := fs.String("user", defaultUser, "user id")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	c, err := a.open(ctx)
	if err != nil {
		return a.fail(err)
	}

	records, err := c.Outfits.List(ctx, *user)
	if err != nil {
		return a.fail(err)
	}
	records = outfits.Filter(records, *category)

	if len(records) == 0 {
		fmt.Fprintln(a.out, "No outfits.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tFAV\tOCCASION\tCREATED")
	for _, r := range records {
		occasion := "-"
		if r.Metadata != nil && r.Metadata.Occasion != "" {
			occasion = r.Metadata.Occasion
		}
		fav := ""
		if r.IsFavorite {
			fav = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Name, fav, occasion, r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func (a *App) saveOutfit(ctx context.Context, args []string) error {
	fs := a.newFlagSet("outfits save")
	name := fs.String("name", "", "outfit name")
	image := fs.String("image", "", "image file")
	user := fs.String("user", defaultUser, "user id")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *name == "" || *image == "" {
		fmt.Fprintln(a.out, outfitsUsage)
		return errUsage
	}

	data, err := os.ReadFile(*image)
	if err != nil {
		return a.fail(err)
	}

	c, err := a.open(ctx)
	if err != nil {
		return a.fail(err)
	}

	rec, err := c.Outfits.Save(ctx, *user, *name, data)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Saved outfit %s (%s)\n", rec.ID, rec.Name)
	return nil
}

// idArgs splits "<id> [value] [flags]" into the positional values and the
// remaining flags.
func (a *App) idArgs(name string, args []string, want int) ([]string, string, error) {
	fs := a.newFlagSet(name)
	user := fs.String("user", defaultUser, "user id")

	var pos []string
	for len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		pos = append(pos, args[0])
		args = args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return nil, "", errUsage
	}
	pos = append(pos, fs.Args()...)

	if len(pos) != want {
		fmt.Fprintln(a.out, outfitsUsage)
		return nil, "", errUsage
	}
	return pos, *user, nil
}

func (a *App) deleteOutfit(ctx context.Context, args []string) error {
	pos, user, err := a.idArgs("outfits delete", args, 1)
	if err != nil {
		return err
	}

	c, err := a.open(ctx)
	if err != nil {
		return a.fail(err)
	}

	if err := c.Outfits.Delete(ctx, user, pos[0]); err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Deleted outfit %s\n", pos[0])
	return nil
}

func (a *App) favoriteOutfit(ctx context.Context, args []string) error {
	pos, user, err := a.idArgs("outfits favorite", args, 2)
	if err != nil {
		return err
	}

	fav, err := strconv.ParseBool(pos[1])
	if err != nil {
		fmt.Fprintln(a.out, outfitsUsage)
		return errUsage
	}

	c, err := a.open(ctx)
	if err != nil {
		return a.fail(err)
	}

	got, err := c.Outfits.ToggleFavorite(ctx, user, pos[0], fav)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Outfit %s favorite: %t\n", pos[0], got)
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/abelbrown/moderator/internal/controller"
	"github.com/abelbrown/moderator/internal/model"
)

func runList() {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	page := fs.Int("page", 1, "Page number (1-based)")
	limit := fs.Int("limit", 0, "Page size (default: the resource's)")
	status := fs.String("status", model.StatusAll, "Status filter")
	search := fs.String("search", "", "Search term")
	sortField := fs.String("sort", "", "Sort field")
	order := fs.String("order", "", "Sort order: asc or desc")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: modctl list <resource> [flags]")
		fs.PrintDefaults()
	}
	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "--help" {
		fs.Usage()
		os.Exit(2)
	}
	res := lookupResource(os.Args[1])
	fs.Parse(os.Args[2:])

	cfg := loadConfig()
	client := newClient(cfg)
	ctx := context.Background()

	ctl := controller.New(res)
	ctl.Restore(*limit, *sortField, model.SortOrder(*order))
	if _, ok := ctl.SetStatusFilter(*status); !ok && *status != model.StatusAll {
		fmt.Fprintf(os.Stderr, "error: %s has no status %q\n", res.Name, *status)
		os.Exit(1)
	}
	ctl.SetSearch(*search)

	if err := settle(ctx, client, ctl, ctl.Load()); err != nil {
		fatal(err)
	}
	// Pages past the first need the total from the first fetch to clamp.
	if *page > 1 {
		if t, ok := ctl.SetPage(*page - 1); ok {
			if err := settle(ctx, client, ctl, t); err != nil {
				fatal(err)
			}
		}
	}

	headers := []string{"ID"}
	for _, c := range res.Columns {
		if c.Field != model.FieldID && c.Field != model.FieldMongo {
			headers = append(headers, c.Title)
		}
	}
	t := newTable(headers...)
	for _, r := range ctl.Window() {
		row := []string{r.ID}
		for _, c := range res.Columns {
			switch c.Field {
			case model.FieldID, model.FieldMongo:
				continue
			case model.FieldStatus:
				row = append(row, res.StatusLabel(r.Status))
			default:
				row = append(row, truncate(r.Text(c.Field), max(c.Width, 6)))
			}
		}
		t.Row(row...)
	}
	fmt.Println(t.Render())

	q := ctl.Query()
	fmt.Printf("page %d/%d · %d matched · %d total · sort %s %s\n",
		q.Page+1, max(ctl.TotalPages(), 1), ctl.MatchedCount(), ctl.TotalCount(), q.SortField, q.SortOrder)
}

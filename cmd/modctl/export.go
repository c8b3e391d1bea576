package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/abelbrown/moderator/internal/catalog"
	"github.com/abelbrown/moderator/internal/config"
	"github.com/abelbrown/moderator/internal/controller"
	"github.com/abelbrown/moderator/internal/controller/filters"
	"github.com/abelbrown/moderator/internal/export"
	"github.com/abelbrown/moderator/internal/model"
)

func runExport() {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	status := fs.String("status", model.StatusAll, `Payout status ("To Do", "In Progress", "Pending", "Done")`)
	methods := fs.String("method", "", "Comma-separated payout methods (default: the configured ones)")
	from := fs.String("from", "", "Earliest request date, 2006-01-02")
	to := fs.String("to", "", "Latest request date, 2006-01-02")
	out := fs.String("o", "", "Output file (default: payouts-<status>-<date>.csv)")
	fs.Parse(os.Args[1:])

	cfg := loadConfig()
	client := newClient(cfg)
	res := catalog.FinancePayouts

	fin := cfg.Finance
	if *methods != "" {
		fin.Methods = *methods
	}
	if *from != "" {
		fin.From = *from
	}
	if *to != "" {
		fin.To = *to
	}
	narrow, err := payoutFilters(fin)
	if err != nil {
		fatal(err)
	}

	ctl := controller.New(res, narrow...)
	if _, ok := ctl.SetStatusFilter(*status); !ok && *status != model.StatusAll {
		fmt.Fprintf(os.Stderr, "error: unknown payout status %q\n", *status)
		os.Exit(1)
	}
	if err := settle(context.Background(), client, ctl, ctl.Load()); err != nil {
		fatal(err)
	}
	// One page holding every match.
	ctl.SetPageSize(max(ctl.MatchedCount(), 1))
	ctl.SelectAll()
	records, err := ctl.SelectedRecords()
	if err != nil {
		fmt.Fprintln(os.Stderr, "nothing to export")
		os.Exit(1)
	}

	path := *out
	if path == "" {
		path = export.Filename(res, *status, time.Now())
	}
	if err := export.WriteFile(path, res, records, export.Columns(res, "requestDate", "country")); err != nil {
		fatal(err)
	}
	fmt.Printf("Exported %d payouts to %s\n", len(records), path)
}

// payoutFilters mirrors the console's finance filters.
func payoutFilters(f config.FinanceConfig) ([]controller.Filter, error) {
	var out []controller.Filter
	lo, hi, err := f.Range()
	if err != nil {
		return nil, err
	}
	if !lo.IsZero() || !hi.IsZero() {
		out = append(out, filters.NewDateRange("requestDate", lo, hi))
	}
	if m := f.MethodList(); len(m) > 0 {
		out = append(out, filters.NewFieldEquals("method", m...))
	}
	return out, nil
}

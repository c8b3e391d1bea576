package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"

	"github.com/abelbrown/moderator/internal/api"
	"github.com/abelbrown/moderator/internal/catalog"
	"github.com/abelbrown/moderator/internal/config"
	"github.com/abelbrown/moderator/internal/controller"
	"github.com/abelbrown/moderator/internal/journal"
	"github.com/abelbrown/moderator/internal/logging"
	"github.com/abelbrown/moderator/internal/model"
)

// loadConfig loads settings and routes diagnostics to stderr, or fatals.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", "err", err)
	}
	if err := logging.InitWriter(os.Stderr, cfg.Log.Level); err != nil {
		log.Fatal("invalid log level", "err", err)
	}
	return cfg
}

// newClient builds the API client from cfg or fatals.
func newClient(cfg *config.Config) *api.Client {
	c, err := api.New(api.Options{
		BaseURL:         cfg.API.BaseURL,
		Token:           cfg.API.Token,
		Timeout:         cfg.API.Timeout,
		RateLimit:       cfg.API.RateLimit,
		Burst:           cfg.API.Burst,
		DetailCacheSize: cfg.API.DetailCacheSize,
		DetailCacheTTL:  cfg.API.DetailCacheTTL,
	})
	if err != nil {
		log.Fatal("invalid API settings", "err", err)
	}
	return c
}

// openJournal opens <dataDir>/moderator.db or fatals.
func openJournal(cfg *config.Config) *journal.Journal {
	j, err := journal.Open(cfg.Path("moderator.db"))
	if err != nil {
		log.Fatal("failed to open journal", "err", err)
	}
	return j
}

// lookupResource resolves a resource name or fatals with the valid names.
func lookupResource(name string) catalog.Resource {
	res, ok := catalog.Lookup(name)
	if !ok {
		fmt.Fprintf(os.Stderr, "error: unknown resource %q (one of: %s)\n", name, strings.Join(catalog.Names(), ", "))
		os.Exit(1)
	}
	return res
}

// settle runs t and any clamped follow-up tickets until the list is
// resolved.
func settle(ctx context.Context, c *api.Client, ctl *controller.List, t controller.Ticket) error {
	for {
		var page model.PageResult
		var err error
		if t.All {
			var recs []model.Record
			recs, err = c.ListAll(ctx, ctl.Resource())
			page = model.PageResult{Records: recs, TotalCount: len(recs), MatchedCount: len(recs)}
		} else {
			page, err = c.List(ctx, ctl.Resource(), t.Query)
		}
		r := ctl.Resolve(t.Seq, page, err)
		if err != nil {
			return err
		}
		if r.Next == nil {
			return nil
		}
		t = *r.Next
	}
}

// newTable returns a plain bordered table for terminal output.
func newTable(headers ...string) *ltable.Table {
	return ltable.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == ltable.HeaderRow {
				return s.Bold(true)
			}
			return s
		})
}

// truncate shortens a string to max runes, appending "..." if truncated.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %s\n", api.Message(err))
	os.Exit(1)
}

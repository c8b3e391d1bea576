// Command moderator is the terminal moderation console.
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/abelbrown/moderator/internal/api"
	"github.com/abelbrown/moderator/internal/catalog"
	"github.com/abelbrown/moderator/internal/config"
	"github.com/abelbrown/moderator/internal/controller"
	"github.com/abelbrown/moderator/internal/controller/filters"
	"github.com/abelbrown/moderator/internal/journal"
	"github.com/abelbrown/moderator/internal/logging"
	"github.com/abelbrown/moderator/internal/otel"
	"github.com/abelbrown/moderator/internal/store"
	"github.com/abelbrown/moderator/internal/ui"
)

const usage = `moderator - terminal moderation console

Usage:
  moderator [-h]

Settings come from the environment and an optional YAML file
(MODERATOR_CONFIG, default ~/.moderator/config.yaml).

`

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "-h", "--help", "help":
			fmt.Print(usage)
			fmt.Print(config.Usage())
			return
		}
		fmt.Fprintf(os.Stderr, "moderator: unexpected argument %q\n\n", os.Args[1])
		fmt.Print(usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", "err", err)
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatal("Failed to create data directory", "dir", cfg.DataDir, "err", err)
	}
	if err := logging.Init(cfg.DataDir, cfg.Log.Level); err != nil {
		log.Fatal("Failed to open log", "err", err)
	}
	defer logging.Close()

	// Event log; the ring buffer feeds the debug overlay even when the
	// file cannot be opened.
	ring := otel.NewRingBuffer(otel.DefaultRingSize)
	events, err := otel.OpenFile(cfg.Path("moderator.events.jsonl"))
	if err != nil {
		logging.Warn("event log unavailable", "err", err)
		events = otel.NewNullLogger()
	}
	events.SetRingBuffer(ring)
	defer events.Close()
	events.Info(otel.KindStartup, "main", "api "+cfg.API.BaseURL)

	client, err := api.New(api.Options{
		BaseURL:         cfg.API.BaseURL,
		Token:           cfg.API.Token,
		Timeout:         cfg.API.Timeout,
		RateLimit:       cfg.API.RateLimit,
		Burst:           cfg.API.Burst,
		DetailCacheSize: cfg.API.DetailCacheSize,
		DetailCacheTTL:  cfg.API.DetailCacheTTL,
	})
	if err != nil {
		log.Fatal("Invalid API settings", "err", err)
	}

	payoutFilters, err := financeFilters(cfg.Finance)
	if err != nil {
		log.Fatal("Invalid finance filters", "err", err)
	}

	opts := ui.Options{
		Backend:        client,
		Store:          store.New(),
		Events:         events,
		Ring:           ring,
		SearchDebounce: cfg.UI.SearchDebounce,
		NoticeTTL:      cfg.UI.NoticeTTL,
		PageSize:       cfg.UI.DefaultPageSize,
		Filters:        map[string][]controller.Filter{catalog.Payouts: payoutFilters},
		ExportDir:      cfg.Path("exports"),
		Start:          cfg.UI.StartScreen,
	}

	// Without the journal the console still works; it just forgets.
	j, err := journal.Open(cfg.Path("moderator.db"))
	if err != nil {
		logging.Warn("journal unavailable", "err", err)
	} else {
		defer j.Close()
		opts.Journal = j
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	program := tea.NewProgram(ui.NewApp(ctx, opts), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		logging.Error("program exited", "err", err)
		fmt.Fprintf(os.Stderr, "moderator: %v\n", err)
	}

	cancel()
	events.Info(otel.KindShutdown, "main", "")
}

// financeFilters turns the finance settings into payout filters.
func financeFilters(f config.FinanceConfig) ([]controller.Filter, error) {
	var out []controller.Filter
	from, to, err := f.Range()
	if err != nil {
		return nil, err
	}
	if !from.IsZero() || !to.IsZero() {
		out = append(out, filters.NewDateRange("requestDate", from, to))
	}
	if methods := f.MethodList(); len(methods) > 0 {
		out = append(out, filters.NewFieldEquals("method", methods...))
	}
	return out, nil
}

package ui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/moderator/internal/controller"
	"github.com/abelbrown/moderator/internal/otel"
	"github.com/abelbrown/moderator/internal/store"
)

// Options wires the console to its collaborators.
type Options struct {
	Backend Backend
	// Journal may be nil; actions are then not recorded and preferences
	// are not remembered.
	Journal Journal
	Store   *store.Store
	Events  *otel.Logger
	Ring    *otel.RingBuffer

	SearchDebounce time.Duration
	NoticeTTL      time.Duration
	// PageSize overrides every resource's default when positive.
	PageSize int
	// Filters are client-side filters installed per resource name.
	Filters   map[string][]controller.Filter
	ExportDir string
	// Start is "dashboard" or a resource name.
	Start string

	// Clipboard defaults to the system clipboard.
	Clipboard func(string) error
}

// env is what every screen shares.
type env struct {
	ctx       context.Context
	backend   Backend
	journal   Journal
	store     *store.Store
	events    *otel.Logger
	debounce  time.Duration
	pageSize  int
	filters   map[string][]controller.Filter
	exportDir string
	copy      func(string) error
}

func newEnv(ctx context.Context, o Options) *env {
	e := &env{
		ctx:       ctx,
		backend:   o.Backend,
		journal:   o.Journal,
		store:     o.Store,
		events:    o.Events,
		debounce:  o.SearchDebounce,
		pageSize:  o.PageSize,
		filters:   o.Filters,
		exportDir: o.ExportDir,
		copy:      o.Clipboard,
	}
	if e.events == nil {
		e.events = otel.NewNullLogger()
	}
	if e.store == nil {
		e.store = store.New()
	}
	if e.copy == nil {
		e.copy = clipboard.WriteAll
	}
	if e.exportDir == "" {
		e.exportDir = "."
	}
	return e
}

// notify turns a notice into a message for the App.
func notify(n controller.Notice) tea.Cmd {
	return func() tea.Msg { return n }
}

func notifyErr(err error) tea.Cmd {
	return notify(controller.NoticeFor(err))
}

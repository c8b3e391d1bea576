package ui

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/abelbrown/moderator/internal/api"
	"github.com/abelbrown/moderator/internal/catalog"
	"github.com/abelbrown/moderator/internal/journal"
	"github.com/abelbrown/moderator/internal/mockapi"
	"github.com/abelbrown/moderator/internal/model"
	"github.com/abelbrown/moderator/internal/otel"
	"github.com/abelbrown/moderator/internal/store"
)

// cmdTimeout bounds one command. The harness closes the store
// subscription and shortens notice expiry so nothing should block.
const cmdTimeout = 3 * time.Second

type harness struct {
	t       *testing.T
	app     App
	backend *mockapi.Server
	client  *api.Client
	store   *store.Store
	ring    *otel.RingBuffer
	events  *otel.Logger
	copied  []string
	dir     string
}

type harnessOpt func(*Options)

func withJournal(j *journal.Journal) harnessOpt {
	return func(o *Options) { o.Journal = j }
}

func withStart(name string) harnessOpt {
	return func(o *Options) { o.Start = name }
}

func withPageSize(n int) harnessOpt {
	return func(o *Options) { o.PageSize = n }
}

func openJournal(t *testing.T) *journal.Journal {
	t.Helper()
	j, err := journal.Open(filepath.Join(t.TempDir(), "moderator.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func businessRecords() []model.Record {
	return []model.Record{
		model.NewRecord(map[string]any{"_id": "b1", "name": "Alpha Bakery", "owner": "ana", "category": "food", "status": "PENDING", "createdAt": "2025-03-03T10:00:00Z"}),
		model.NewRecord(map[string]any{"_id": "b2", "name": "Bravo Books", "owner": "ben", "category": "retail", "status": "PENDING", "createdAt": "2025-03-02T10:00:00Z"}),
		model.NewRecord(map[string]any{"_id": "b3", "name": "Charlie Cafe", "owner": "cy", "category": "food", "status": "ACTIVE", "createdAt": "2025-03-01T10:00:00Z"}),
	}
}

func payoutRecords() []model.Record {
	var out []model.Record
	for i, st := range []string{"To Do", "To Do", "In Progress", "Done"} {
		out = append(out, model.NewRecord(map[string]any{
			"_id":         fmt.Sprintf("p%d", i+1),
			"company":     fmt.Sprintf("Company %d", i+1),
			"amount":      100 * (i + 1),
			"method":      "bank",
			"country":     "NG",
			"status":      st,
			"isFlagged":   false,
			"requestDate": fmt.Sprintf("2025-03-0%dT09:00:00Z", i+1),
		}))
	}
	return out
}

// newHarness starts an App against a mock backend seeded with small,
// known collections and feeds it a window size and its Init commands.
func newHarness(t *testing.T, opts ...harnessOpt) *harness {
	t.Helper()
	backend := mockapi.New(mockapi.Options{Seed: 3, PerResource: 4})
	backend.Seed(catalog.Business, businessRecords())
	backend.Seed(catalog.Payouts, payoutRecords())
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	client, err := api.New(api.Options{BaseURL: srv.URL, Token: "test", Timeout: 5 * time.Second})
	require.NoError(t, err)

	ring := otel.NewRingBuffer(256)
	events := otel.NewLogger(io.Discard)
	events.SetRingBuffer(ring)
	t.Cleanup(events.Close)

	h := &harness{t: t, backend: backend, client: client, store: store.New(), ring: ring, events: events, dir: t.TempDir()}
	o := Options{
		Backend:   client,
		Store:     h.store,
		Events:    events,
		Ring:      ring,
		NoticeTTL: time.Millisecond,
		ExportDir: h.dir,
		Start:     "dashboard",
		Clipboard: func(s string) error {
			h.copied = append(h.copied, s)
			return nil
		},
	}
	for _, fn := range opts {
		fn(&o)
	}
	h.app = NewApp(context.Background(), o)
	// StoreChanged is delivered by hand in the tests that need it.
	h.store.Unsubscribe(h.app.changes)
	h.send(tea.WindowSizeMsg{Width: 140, Height: 40})
	h.pump(h.app.Init())
	return h
}

// run executes cmd and returns the messages it produced, flattening
// batches.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(cmdTimeout):
		return nil
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// pump feeds cmd's messages back through Update until nothing is left.
// Expiry, spinner and cursor ticks are dropped so the loop ends and
// notices stay visible.
func (h *harness) pump(cmd tea.Cmd) {
	h.t.Helper()
	queue := run(cmd)
	for i := 0; len(queue) > 0; i++ {
		if i > 500 {
			h.t.Fatal("message loop did not settle")
		}
		msg := queue[0]
		queue = queue[1:]
		switch msg.(type) {
		case spinner.TickMsg, cursor.BlinkMsg, NoticeExpired, tea.QuitMsg:
			continue
		}
		next, c := h.app.Update(msg)
		h.app = next.(App)
		queue = append(queue, run(c)...)
	}
}

// send delivers one message and settles what follows from it.
func (h *harness) send(msg tea.Msg) {
	h.t.Helper()
	next, cmd := h.app.Update(msg)
	h.app = next.(App)
	h.pump(cmd)
}

func (h *harness) key(keys ...string) {
	h.t.Helper()
	for _, k := range keys {
		h.send(keyMsg(k))
	}
}

// typeText delivers s as one paste-like key message.
func (h *harness) typeText(s string) {
	h.t.Helper()
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func (h *harness) list() *ListScreen {
	h.t.Helper()
	l := h.app.List()
	require.NotNil(h.t, l, "no list open (screen %s)", h.app.Screen())
	return l
}

func (h *harness) notice() string {
	n, ok := h.app.Notice()
	if !ok {
		return ""
	}
	return n.Text
}

func (h *harness) backendStatus(res, id string) string {
	h.t.Helper()
	for _, r := range h.backend.Records(res) {
		if r.ID == id {
			return r.Status
		}
	}
	h.t.Fatalf("backend has no %s/%s", res, id)
	return ""
}

// eventually waits for the async event logger to reach the ring.
func (h *harness) eventually(kind otel.EventKind, n int) {
	h.t.Helper()
	require.Eventually(h.t, func() bool {
		return h.ring.Stats()[kind] >= n
	}, 2*time.Second, 10*time.Millisecond, "want %d %s events", n, kind)
}

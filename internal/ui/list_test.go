package ui

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abelbrown/moderator/internal/catalog"
	"github.com/abelbrown/moderator/internal/controller"
	"github.com/abelbrown/moderator/internal/debounce"
	"github.com/abelbrown/moderator/internal/journal"
	"github.com/abelbrown/moderator/internal/model"
	"github.com/abelbrown/moderator/internal/otel"
	"github.com/abelbrown/moderator/internal/ui/dialog"
)

func statusOf(t *testing.T, ctl *controller.List, id string) string {
	t.Helper()
	r, ok := ctl.Record(id)
	require.True(t, ok, "record %s not loaded", id)
	return r.Status
}

func TestListApproveCurrentRow(t *testing.T) {
	h := newHarness(t, withStart(catalog.Business))

	h.key("a")

	assert.Equal(t, "ACTIVE", h.backendStatus(catalog.Business, "b1"))
	assert.Equal(t, "ACTIVE", statusOf(t, h.list().Controller(), "b1"))
	assert.Equal(t, "PENDING", statusOf(t, h.list().Controller(), "b2"))
	assert.Equal(t, "Approve b1: done", h.notice())

	r, ok := h.store.Find(catalog.Business, "b1")
	require.True(t, ok)
	assert.Equal(t, "ACTIVE", r.Status, "store mirrors the patch")
	h.eventually(otel.KindActionComplete, 1)
}

func TestListCursorMovesTarget(t *testing.T) {
	h := newHarness(t, withStart(catalog.Business))

	h.key("j", "a")

	assert.Equal(t, "PENDING", h.backendStatus(catalog.Business, "b1"))
	assert.Equal(t, "ACTIVE", h.backendStatus(catalog.Business, "b2"))
}

func TestListCursorSurvivesEmptyWindow(t *testing.T) {
	h := newHarness(t, withStart(catalog.Business))
	l := h.list()
	require.Equal(t, 0, l.table.Cursor(), "first load lands on the first row")

	h.key("/")
	h.typeText("nothing matches this")
	require.Empty(t, l.Controller().Window())
	h.key("esc")
	require.Len(t, l.Controller().Window(), 3)

	assert.Equal(t, 0, l.table.Cursor())
	h.key("j", "a")
	assert.Equal(t, "ACTIVE", h.backendStatus(catalog.Business, "b2"))
	assert.Equal(t, "PENDING", h.backendStatus(catalog.Business, "b1"))
}

func TestListRejectAsksForReason(t *testing.T) {
	h := newHarness(t, withStart(catalog.Business))
	l := h.list()

	h.key("x")
	require.True(t, l.DialogActive())

	// Blank reasons are refused in place.
	h.key("enter")
	assert.Equal(t, dialog.Open, l.dialog.State())
	assert.Equal(t, "A reason is required", l.dialog.Err())
	assert.Equal(t, "PENDING", h.backendStatus(catalog.Business, "b1"))

	h.typeText("duplicate listing")
	h.key("enter")

	assert.False(t, l.DialogActive())
	assert.Equal(t, "REJECTED", h.backendStatus(catalog.Business, "b1"))
	assert.Equal(t, "REJECTED", statusOf(t, l.Controller(), "b1"))
}

func TestListDialogEscCancels(t *testing.T) {
	h := newHarness(t, withStart(catalog.Business))
	l := h.list()

	h.key("x", "esc")

	assert.False(t, l.DialogActive())
	assert.Equal(t, "list:business", h.app.Screen(), "esc closes the dialog only")
	assert.Equal(t, "PENDING", h.backendStatus(catalog.Business, "b1"))
}

func TestListFailedActionKeepsDialogOpen(t *testing.T) {
	h := newHarness(t, withStart(catalog.Business))
	l := h.list()
	h.backend.Fail(catalog.Business, http.StatusInternalServerError, "moderation service down")

	h.key("x")
	h.typeText("spam")
	h.key("enter")

	require.True(t, l.DialogActive())
	assert.Equal(t, dialog.Open, l.dialog.State())
	assert.Contains(t, l.dialog.Err(), "moderation service down")
	assert.Equal(t, "PENDING", statusOf(t, l.Controller(), "b1"))
	assert.False(t, l.Controller().Busy())

	// Retry from the same dialog once the backend recovers.
	h.backend.Recover(catalog.Business)
	h.key("enter")
	assert.False(t, l.DialogActive())
	assert.Equal(t, "REJECTED", h.backendStatus(catalog.Business, "b1"))
}

func TestListBulkApprove(t *testing.T) {
	h := newHarness(t, withStart(catalog.Business))
	l := h.list()

	h.key("space", "j", "space")
	require.ElementsMatch(t, []string{"b1", "b2"}, l.Controller().Selected())
	assert.Contains(t, l.View(""), "2 selected")

	h.key("A")
	require.True(t, l.DialogActive(), "bulk actions confirm first")
	h.key("y")

	assert.Equal(t, "ACTIVE", h.backendStatus(catalog.Business, "b1"))
	assert.Equal(t, "ACTIVE", h.backendStatus(catalog.Business, "b2"))
	assert.Equal(t, "ACTIVE", h.backendStatus(catalog.Business, "b3"))
	assert.Empty(t, l.Controller().Selected(), "success clears the selection")
}

func TestListBulkNothingSelected(t *testing.T) {
	h := newHarness(t, withStart(catalog.Business))

	h.key("A")

	assert.False(t, h.list().DialogActive())
	assert.Equal(t, "Nothing selected", h.notice())
}

func TestListStatusTabs(t *testing.T) {
	h := newHarness(t, withStart(catalog.Business))
	ctl := h.list().Controller()

	h.key("tab")

	assert.Equal(t, "PENDING", ctl.Query().StatusFilter)
	assert.Equal(t, []string{"b1", "b2"}, model.IDs(ctl.Window()))

	h.key("shift+tab")
	assert.Equal(t, model.StatusAll, ctl.Query().StatusFilter)
	assert.Len(t, ctl.Window(), 3)
}

func TestListStatusLeavingTabRefetches(t *testing.T) {
	h := newHarness(t, withStart(catalog.Business))
	ctl := h.list().Controller()
	h.key("tab")

	h.key("a")

	assert.Equal(t, []string{"b2"}, model.IDs(ctl.Window()), "approved record leaves the pending tab")
}

func TestListSearch(t *testing.T) {
	h := newHarness(t, withStart(catalog.Business))
	l := h.list()

	h.key("/")
	h.typeText("bravo")

	assert.Equal(t, "bravo", l.Controller().Query().SearchTerm)
	assert.Equal(t, []string{"b2"}, model.IDs(l.Controller().Window()))

	h.key("esc")
	assert.False(t, l.Searching())
	assert.Empty(t, l.Controller().Query().SearchTerm)
	assert.Len(t, l.Controller().Window(), 3)
}

func TestListIgnoresSupersededSearch(t *testing.T) {
	h := newHarness(t, withStart(catalog.Business))
	l := h.list()

	h.key("/")
	l.debounce.Trigger("alpha")
	first := l.debounce.Pending()
	l.debounce.Trigger("bravo")

	// The first keystroke's timer fires late and is discarded.
	h.send(debounce.Fired{Key: l.debounce.Key, Seq: first, Value: "alpha"})
	assert.Empty(t, l.Controller().Query().SearchTerm)

	h.send(debounce.Fired{Key: l.debounce.Key, Seq: l.debounce.Pending(), Value: "bravo"})
	assert.Equal(t, "bravo", l.Controller().Query().SearchTerm)
	assert.Equal(t, []string{"b2"}, model.IDs(l.Controller().Window()))
}

func TestListIgnoresStalePage(t *testing.T) {
	h := newHarness(t, withStart(catalog.Business))
	l := h.list()
	ctl := l.Controller()

	h.key("r")
	before := model.IDs(ctl.Window())

	h.send(PageLoaded{Screen: l.id, Seq: 1, Page: model.PageResult{
		Records:    []model.Record{model.NewRecord(map[string]any{"_id": "old", "status": "PENDING"})},
		TotalCount: 1, MatchedCount: 1, TotalPages: 1,
	}})

	assert.Equal(t, before, model.IDs(ctl.Window()))
	h.eventually(otel.KindFetchStale, 1)
}

func TestListFetchErrorKeepsRows(t *testing.T) {
	h := newHarness(t, withStart(catalog.Business))
	l := h.list()
	ctl := l.Controller()

	t1 := ctl.Refresh()
	h.send(PageLoaded{Screen: l.id, Seq: t1.Seq, Err: assert.AnError})

	assert.Equal(t, controller.Failed, ctl.State())
	assert.Len(t, ctl.Window(), 3)
	assert.Contains(t, l.View(""), "r to retry")
	assert.Contains(t, h.notice(), "Could not load business spaces")
}

func TestListDelete(t *testing.T) {
	h := newHarness(t, withStart(catalog.Business))

	h.key("d")
	require.True(t, h.list().DialogActive())
	h.key("y")

	assert.Len(t, h.backend.Records(catalog.Business), 2)
	assert.Equal(t, []string{"b2", "b3"}, model.IDs(h.list().Controller().Window()))
}

func TestListDeleteDisabledWhereNotDeletable(t *testing.T) {
	h := newHarness(t, withStart(catalog.Payouts))

	h.key("d")

	assert.False(t, h.list().DialogActive())
	assert.Len(t, h.backend.Records(catalog.Payouts), 4)
}

func TestListPageSizeIsRemembered(t *testing.T) {
	j := openJournal(t)
	h := newHarness(t, withStart(catalog.Business), withJournal(j))

	h.key("-")
	require.Equal(t, 5, h.list().Controller().Query().PageSize)
	h.key("s")

	p, ok, err := j.LoadPrefs(t.Context(), catalog.Business)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 5, p.PageSize)
	assert.Equal(t, "name", p.SortField)

	// A fresh session restores the view shape before the first fetch.
	h2 := newHarness(t, withStart(catalog.Business), withJournal(j))
	q := h2.list().Controller().Query()
	assert.Equal(t, 5, q.PageSize)
	assert.Equal(t, "name", q.SortField)
	assert.Equal(t, controller.DefaultOrder, q.SortOrder)
}

func TestListActionsAreJournaled(t *testing.T) {
	j := openJournal(t)
	h := newHarness(t, withStart(catalog.Business), withJournal(j))

	h.key("x")
	h.typeText("fake shop")
	h.key("enter")

	entries, err := j.Recent(t.Context(), journal.Filter{Resource: catalog.Business})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "status", e.Kind)
	assert.Equal(t, []string{"b1"}, e.IDs)
	assert.Equal(t, "REJECTED", e.Status)
	assert.True(t, e.OK)
	assert.Equal(t, "fake shop", e.Message)
}

func TestListPayoutPaging(t *testing.T) {
	h := newHarness(t, withStart(catalog.Payouts), withPageSize(3))
	ctl := h.list().Controller()
	require.Equal(t, 2, ctl.TotalPages())

	h.key("l")
	assert.Equal(t, 1, ctl.Query().Page)
	assert.Len(t, ctl.Window(), 1)
	h.key("l")
	assert.Equal(t, 1, ctl.Query().Page, "clamped to the last page")
	h.key("h")
	assert.Equal(t, 0, ctl.Query().Page)

	h.key("+")
	assert.Equal(t, 5, ctl.Query().PageSize)
	assert.Equal(t, 1, ctl.TotalPages())

	h.eventually(otel.KindFetchComplete, 1)
	assert.Equal(t, 1, h.ring.Stats()[otel.KindFetchStart], "client paging never refetches")
}

func TestListFlagPayout(t *testing.T) {
	h := newHarness(t, withStart(catalog.Payouts))
	ctl := h.list().Controller()
	id := ctl.Window()[0].ID

	h.key("f")

	r, ok := ctl.Record(id)
	require.True(t, ok)
	assert.True(t, r.Bool(fieldFlagged))
	assert.Contains(t, h.list().View(""), "1 flagged")

	h.key("F")
	assert.Equal(t, []string{id}, model.IDs(ctl.Window()), "flagged-only filter")
}

func TestListExportSelected(t *testing.T) {
	h := newHarness(t, withStart(catalog.Payouts))

	h.key("e")
	assert.Equal(t, "Nothing selected", h.notice())

	h.key("*", "e")

	assert.Contains(t, h.notice(), "Exported 4 records")
	files, err := filepath.Glob(filepath.Join(h.dir, "payouts-all-*.csv"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "Company 1")
}

func TestListCopyAndOpen(t *testing.T) {
	h := newHarness(t, withStart(catalog.Business))

	h.key("y")
	assert.Equal(t, []string{"b1"}, h.copied)

	h.key("enter")
	assert.Equal(t, "detail", h.app.Screen())
}

package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/moderator/internal/api"
	"github.com/abelbrown/moderator/internal/catalog"
	"github.com/abelbrown/moderator/internal/controller"
	"github.com/abelbrown/moderator/internal/export"
	"github.com/abelbrown/moderator/internal/journal"
	"github.com/abelbrown/moderator/internal/model"
	"github.com/abelbrown/moderator/internal/store"
)

// fetchCmd runs one ticket. Client-paged tickets load the whole collection.
func fetchCmd(ctx context.Context, b Backend, screen int, res catalog.Resource, t controller.Ticket) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		var page model.PageResult
		var err error
		if t.All {
			var recs []model.Record
			recs, err = b.ListAll(ctx, res)
			page = model.PageResult{Records: recs, TotalCount: len(recs), MatchedCount: len(recs)}
		} else {
			page, err = b.List(ctx, res, t.Query)
		}
		return PageLoaded{Screen: screen, Seq: t.Seq, Page: page, Err: err, Dur: time.Since(start)}
	}
}

func countsCmd(ctx context.Context, b Backend, screen int, res catalog.Resource, seq uint64) tea.Cmd {
	return func() tea.Msg {
		counts, err := b.Counts(ctx, res)
		return CountsLoaded{Screen: screen, Seq: seq, Counts: counts, Err: err}
	}
}

func overviewsCmd(ctx context.Context, b Backend, seq uint64) tea.Cmd {
	return func() tea.Msg {
		return OverviewsLoaded{Seq: seq, Overviews: b.Overviews(ctx, catalog.All())}
	}
}

func detailCmd(ctx context.Context, b Backend, screen int, res catalog.Resource, id string) tea.Cmd {
	return func() tea.Msg {
		rec, err := b.Get(ctx, res, id)
		return DetailLoaded{Screen: screen, Record: rec, Err: err}
	}
}

// actionCmd performs a prepared action against the backend.
func actionCmd(ctx context.Context, b Backend, screen int, res catalog.Resource, a controller.Action) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		err := runAction(ctx, b, res, a)
		return ActionDone{Screen: screen, Action: a, Err: err, Dur: time.Since(start)}
	}
}

func runAction(ctx context.Context, b Backend, res catalog.Resource, a controller.Action) error {
	switch a.Op {
	case controller.OpStatus:
		return b.SetStatus(ctx, res, a.IDs, a.Transition, a.Reason)
	case controller.OpDelete:
		for _, id := range a.IDs {
			if err := b.Remove(ctx, res, id); err != nil {
				return err
			}
		}
		return nil
	case controller.OpDeleteTarget:
		return b.RemoveTarget(ctx, a.Subject)
	case controller.OpFlag:
		flagged, _ := a.Fields[fieldFlagged].(bool)
		for _, id := range a.IDs {
			if err := b.SetFlag(ctx, res, id, flagged); err != nil {
				return err
			}
		}
		return nil
	case controller.OpUserStatus:
		status, _ := a.Fields[fieldUserStatus].(string)
		return b.SetUserStatus(ctx, a.Subject.Text(fieldUserID), status)
	}
	return fmt.Errorf("unsupported action %s", a.Op)
}

// journalCmd appends a completed action. A nil journal is a no-op.
func journalCmd(ctx context.Context, j Journal, a controller.Action, err error) tea.Cmd {
	if j == nil {
		return nil
	}
	e := journal.Entry{
		Resource: a.Resource,
		Kind:     a.Op.String(),
		IDs:      a.IDs,
		Status:   a.Transition.Status,
		OK:       err == nil,
	}
	if a.Op == controller.OpUserStatus {
		e.Status, _ = a.Fields[fieldUserStatus].(string)
	}
	if err != nil {
		e.Message = api.Message(err)
	} else if a.Reason != "" {
		e.Message = a.Reason
	}
	return func() tea.Msg {
		_, werr := j.Record(ctx, e)
		return JournalWritten{Err: werr}
	}
}

func savePrefsCmd(ctx context.Context, j Journal, res string, q model.Query) tea.Cmd {
	if j == nil {
		return nil
	}
	p := journal.Prefs{Resource: res, PageSize: q.PageSize, SortField: q.SortField, SortOrder: q.SortOrder}
	return func() tea.Msg {
		return JournalWritten{Err: j.SavePrefs(ctx, p)}
	}
}

func loadPrefsCmd(ctx context.Context, j Journal, screen int, res string) tea.Cmd {
	return func() tea.Msg {
		p, ok, err := j.LoadPrefs(ctx, res)
		return PrefsLoaded{Screen: screen, Prefs: p, Found: ok, Err: err}
	}
}

func exportCmd(dir string, res catalog.Resource, status string, records []model.Record) tea.Cmd {
	return func() tea.Msg {
		path := filepath.Join(dir, export.Filename(res, status, time.Now()))
		err := export.WriteFile(path, res, records, export.Columns(res, "requestDate", "country"))
		return ExportDone{Path: path, Count: len(records), Err: err}
	}
}

func copyCmd(write func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		return Copied{Text: text, Err: write(text)}
	}
}

// waitForChange blocks on the store subscription and relays one change.
func waitForChange(ch <-chan store.Change) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return StoreChanged{Change: c}
	}
}

func expireNotice(ttl time.Duration, id int) tea.Cmd {
	return tea.Tick(ttl, func(time.Time) tea.Msg { return NoticeExpired{ID: id} })
}

const (
	fieldFlagged    = "isFlagged"
	fieldUserStatus = "userStatus"
	fieldUserID     = "userId"
)

func truncateRunes(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

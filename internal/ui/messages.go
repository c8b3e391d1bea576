// Package ui provides the Bubble Tea console: a dashboard of every
// resource, one list screen per resource, a detail view, a reason dialog,
// toast notices and a debug overlay.
//
// The models never perform I/O. Commands built in commands.go call the
// Backend and return one of the messages below; each carries the screen
// instance and ticket it belongs to so late results can be dropped.
package ui

import (
	"time"

	"github.com/abelbrown/moderator/internal/api"
	"github.com/abelbrown/moderator/internal/controller"
	"github.com/abelbrown/moderator/internal/journal"
	"github.com/abelbrown/moderator/internal/model"
	"github.com/abelbrown/moderator/internal/store"
)

// PageLoaded is the result of one list fetch.
type PageLoaded struct {
	Screen int
	Seq    uint64
	Page   model.PageResult
	Err    error
	Dur    time.Duration
}

// CountsLoaded carries per-status badge counts.
type CountsLoaded struct {
	Screen int
	Seq    uint64
	Counts model.StatusCounts
	Err    error
}

// ActionDone is the outcome of a mutation.
type ActionDone struct {
	Screen int
	Action controller.Action
	Err    error
	Dur    time.Duration
}

// OverviewsLoaded fills the dashboard.
type OverviewsLoaded struct {
	Seq       uint64
	Overviews []api.Overview
}

// DetailLoaded is the fetched record for the detail view.
type DetailLoaded struct {
	Screen int
	Record model.Record
	Err    error
}

// PrefsLoaded restores a list screen's page size and sort before its
// first fetch.
type PrefsLoaded struct {
	Screen int
	Prefs  journal.Prefs
	Found  bool
	Err    error
}

// JournalWritten reports a background journal write.
type JournalWritten struct {
	Err error
}

// ExportDone reports a CSV export.
type ExportDone struct {
	Path  string
	Count int
	Err   error
}

// Copied reports a clipboard write.
type Copied struct {
	Text string
	Err  error
}

// NoticeExpired hides the toast with the given id.
type NoticeExpired struct {
	ID int
}

// StoreChanged relays a shared store change.
type StoreChanged struct {
	Change store.Change
}

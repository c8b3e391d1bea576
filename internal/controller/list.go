// Package controller holds the list state behind every entity screen.
//
// A List owns one screen's query, last fetched records, status counts and
// selection. It never performs I/O. Methods that need data from the
// backend return a Ticket; the caller runs the fetch and hands the result
// back through Resolve. Mutations go the same way: Prepare* describes the
// call, Complete reconciles the outcome.
//
// # Ordering
//
// Every Ticket carries a sequence number. Resolve applies a result only if
// it answers the newest ticket, so replies that arrive out of order never
// overwrite newer state. After Close every result is ignored.
//
// # Paging
//
// Server-paged resources fetch exactly the visible page. Client-paged
// resources fetch the whole collection once; filters, search, sort and the
// window are then computed locally and query changes need no fetch.
//
// # Concurrency
//
// A List is not safe for concurrent use. It is owned by the bubbletea
// model, whose Update runs on a single goroutine.
package controller

import (
	"math"
	"slices"
	"strings"

	"github.com/abelbrown/moderator/internal/catalog"
	"github.com/abelbrown/moderator/internal/logging"
	"github.com/abelbrown/moderator/internal/model"
)

// State is the fetch lifecycle of a List.
type State int

const (
	Idle State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "error"
	}
	return "unknown"
}

// DefaultOrder is the order a newly chosen sort field starts with.
const DefaultOrder = model.Desc

// Ticket describes one fetch to run.
type Ticket struct {
	Seq   uint64
	Query model.Query
	// All asks for the whole collection (client paging).
	All bool
}

// Resolution reports what Resolve did with a result.
type Resolution struct {
	// Applied is false when the result was stale or the list closed.
	Applied bool
	// Stale is true when a newer ticket had been issued.
	Stale bool
	// Next is set when the page had to be clamped and a new fetch is due.
	Next *Ticket
}

// List is the controller for one entity screen.
type List struct {
	res   catalog.Resource
	query model.Query

	state State
	err   error
	alive bool

	seq      uint64
	countSeq uint64

	// records is the current page (server paging) or the whole collection
	// (client paging). Replaced wholesale on every applied fetch.
	records []model.Record
	result  model.PageResult
	counts  model.StatusCounts

	filters   []Filter
	selection Selection
	busy      bool
}

// New creates a list for res with the resource's default query.
func New(res catalog.Resource, filters ...Filter) *List {
	size := res.DefaultPageSize
	if size <= 0 {
		size = 10
	}
	return &List{
		res: res,
		query: model.Query{
			PageSize:     size,
			SortField:    res.DefaultSort,
			SortOrder:    DefaultOrder,
			StatusFilter: model.StatusAll,
		},
		alive:   true,
		filters: filters,
	}
}

// Resource returns the resource the list is bound to.
func (l *List) Resource() catalog.Resource { return l.res }

// Query returns the current query.
func (l *List) Query() model.Query { return l.query }

// State returns the fetch state.
func (l *List) State() State { return l.state }

// Err returns the last fetch error, nil unless State is Failed.
func (l *List) Err() error { return l.err }

// ClientPaged reports whether the window is cut locally.
func (l *List) ClientPaged() bool { return l.res.Paging == catalog.ClientPaging }

// Restore applies saved view preferences. Call before the first Load.
// Invalid values are ignored.
func (l *List) Restore(pageSize int, sortField string, order model.SortOrder) {
	if pageSize > 0 {
		l.query.PageSize = pageSize
	}
	if sortField != "" && l.sortable(sortField) {
		l.query.SortField = sortField
	}
	if order == model.Asc || order == model.Desc {
		l.query.SortOrder = order
	}
}

// Load starts the first fetch.
func (l *List) Load() Ticket {
	return l.issue()
}

// Refresh refetches with the current query. Manual retry goes through here.
func (l *List) Refresh() Ticket {
	return l.issue()
}

// SetPage moves to page n, clamped to the known page range. The bool is
// false when nothing changed or no fetch is needed.
func (l *List) SetPage(n int) (Ticket, bool) {
	n = l.clamp(n)
	if n == l.query.Page {
		return Ticket{}, false
	}
	l.query.Page = n
	return l.changed()
}

// NextPage is SetPage(page+1).
func (l *List) NextPage() (Ticket, bool) { return l.SetPage(l.query.Page + 1) }

// PrevPage is SetPage(page-1).
func (l *List) PrevPage() (Ticket, bool) { return l.SetPage(l.query.Page - 1) }

// SetPageSize changes the page size and returns to the first page.
func (l *List) SetPageSize(n int) (Ticket, bool) {
	if n <= 0 || n == l.query.PageSize {
		return Ticket{}, false
	}
	l.query.PageSize = n
	l.query.Page = 0
	return l.changed()
}

// SetSort sorts by field. Choosing the current field flips the order;
// choosing another starts at DefaultOrder. The page is kept.
func (l *List) SetSort(field string) (Ticket, bool) {
	if field == "" || !l.sortable(field) {
		return Ticket{}, false
	}
	if field == l.query.SortField {
		l.query.SortOrder = l.query.SortOrder.Flip()
	} else {
		l.query.SortField = field
		l.query.SortOrder = DefaultOrder
	}
	return l.changed()
}

// SetSearch changes the search term and returns to the first page.
// Callers debounce keystrokes before calling it.
func (l *List) SetSearch(term string) (Ticket, bool) {
	term = strings.TrimSpace(term)
	if term == l.query.SearchTerm {
		return Ticket{}, false
	}
	l.query.SearchTerm = term
	l.query.Page = 0
	return l.changed()
}

// SetStatusFilter switches the status tab, returns to the first page and
// clears the selection. Unknown filters are ignored.
func (l *List) SetStatusFilter(filter string) (Ticket, bool) {
	if filter == "" {
		filter = model.StatusAll
	}
	if !slices.Contains(l.res.Filters(), filter) || filter == l.query.StatusFilter {
		return Ticket{}, false
	}
	l.query.StatusFilter = filter
	l.query.Page = 0
	l.selection.Clear()
	return l.changed()
}

// SetFilters replaces the client-side filters and returns to the first
// page. Server-paged lists ignore filters.
func (l *List) SetFilters(filters ...Filter) (Ticket, bool) {
	l.filters = filters
	l.query.Page = 0
	if l.ClientPaged() {
		l.countLocal()
	}
	return l.changed()
}

// Filters returns the installed client-side filters.
func (l *List) Filters() []Filter { return l.filters }

// changed finishes a query mutation: a fetch for server paging, a local
// recompute for client paging.
func (l *List) changed() (Ticket, bool) {
	if l.ClientPaged() {
		l.settleLocal()
		return Ticket{}, false
	}
	return l.issue(), true
}

func (l *List) issue() Ticket {
	l.seq++
	l.state = Loading
	return Ticket{Seq: l.seq, Query: l.query, All: l.ClientPaged()}
}

// Pending reports whether seq is the newest ticket of a live list.
func (l *List) Pending(seq uint64) bool {
	return l.alive && seq == l.seq && l.state == Loading
}

// Resolve applies a fetch result. Only the newest ticket's result is
// applied; anything else is reported stale and dropped.
func (l *List) Resolve(seq uint64, page model.PageResult, err error) Resolution {
	if !l.alive {
		return Resolution{}
	}
	if seq != l.seq {
		logging.Debug("stale fetch dropped", "resource", l.res.Name, "seq", seq, "latest", l.seq)
		return Resolution{Stale: true}
	}

	if err != nil {
		// The previous records stay; the view renders the error instead.
		l.state = Failed
		l.err = err
		return Resolution{Applied: true}
	}

	l.state = Ready
	l.err = nil
	l.records = page.Records
	l.result = page

	if l.ClientPaged() {
		l.countLocal()
		l.settleLocal()
		return Resolution{Applied: true}
	}

	l.selection.Retain(model.IDs(l.records))

	// The result set shrank under us; step back to the last page.
	last := max(page.TotalPages-1, 0)
	if l.query.Page > last {
		l.query.Page = last
		next := l.issue()
		return Resolution{Applied: true, Next: &next}
	}
	return Resolution{Applied: true}
}

// settleLocal clamps the page and prunes the selection after a local
// window change.
func (l *List) settleLocal() {
	l.query.Page = l.clamp(l.query.Page)
	l.selection.Retain(model.IDs(l.Window()))
}

// countLocal derives badge counts from the loaded collection after
// client filters.
func (l *List) countLocal() {
	l.counts = model.CountByStatus(applyFilters(l.records, l.filters))
}

// Close detaches the list. Every later Resolve and Complete is a no-op.
func (l *List) Close() {
	l.alive = false
}

// Alive reports whether Close has not been called.
func (l *List) Alive() bool { return l.alive }

// Patch rewrites one record in place, keeping order and length. Status
// counts follow a status change. Returns false if id is not loaded.
func (l *List) Patch(id string, fields map[string]any) bool {
	i := slices.IndexFunc(l.records, func(r model.Record) bool { return r.ID == id })
	if i < 0 {
		return false
	}
	before := l.records[i]
	after := before.With(fields)

	// Copy on write: a PageResult already handed out must not change.
	records := slices.Clone(l.records)
	records[i] = after
	l.records = records
	l.result.Records = records

	if l.ClientPaged() {
		// A patch can move a record in or out of the filters.
		l.countLocal()
		l.settleLocal()
		return true
	}
	if before.Status != after.Status {
		l.counts.Move(before.Status, after.Status)
	}
	return true
}

// Records returns the loaded records: the page for server paging, the
// whole collection for client paging.
func (l *List) Records() []model.Record {
	return slices.Clone(l.records)
}

// Record looks up a loaded record.
func (l *List) Record(id string) (model.Record, bool) {
	i := slices.IndexFunc(l.records, func(r model.Record) bool { return r.ID == id })
	if i < 0 {
		return model.Record{}, false
	}
	return l.records[i], true
}

// IDsWhere returns the ids of loaded records whose field equals value.
func (l *List) IDsWhere(field, value string) []string {
	var ids []string
	for _, r := range l.records {
		if r.Text(field) == value {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// Window returns the visible records.
func (l *List) Window() []model.Record {
	if !l.ClientPaged() {
		return slices.Clone(l.records)
	}
	view := l.view()
	size := l.query.PageSize
	lo := min(l.query.Page*size, len(view))
	hi := min(lo+size, len(view))
	return slices.Clone(view[lo:hi])
}

// TotalPages is the number of pages for the current query.
func (l *List) TotalPages() int {
	if !l.ClientPaged() {
		return l.result.TotalPages
	}
	return int(math.Ceil(float64(len(l.view())) / float64(l.query.PageSize)))
}

// TotalCount is the size of the whole collection.
func (l *List) TotalCount() int {
	if !l.ClientPaged() {
		return l.result.TotalCount
	}
	return len(l.records)
}

// MatchedCount is the number of records the query matches across pages.
func (l *List) MatchedCount() int {
	if !l.ClientPaged() {
		return l.result.MatchedCount
	}
	return len(l.view())
}

// view derives the client-paged result set: filters, status, search, sort.
func (l *List) view() []model.Record {
	out := applyFilters(l.records, l.filters)
	q := l.query
	if q.FiltersByStatus() || q.SearchTerm != "" {
		kept := make([]model.Record, 0, len(out))
		for _, r := range out {
			if q.FiltersByStatus() && r.Status != q.StatusFilter {
				continue
			}
			if !model.Matches(r, q.SearchTerm, l.res.SearchFields) {
				continue
			}
			kept = append(kept, r)
		}
		out = kept
	} else {
		out = slices.Clone(out)
	}
	if q.SortField != "" {
		slices.SortStableFunc(out, func(a, b model.Record) int {
			c := model.Compare(a, b, q.SortField)
			if q.SortOrder == model.Desc {
				return -c
			}
			return c
		})
	}
	return out
}

func (l *List) clamp(n int) int {
	if n < 0 {
		return 0
	}
	if l.state == Idle {
		return n
	}
	if last := l.TotalPages() - 1; n > last {
		return max(last, 0)
	}
	return n
}

func (l *List) sortable(field string) bool {
	return len(l.res.SortFields) == 0 || slices.Contains(l.res.SortFields, field)
}

// CountsTicket starts a status count refresh for server-paged lists and
// returns its sequence number. Client-paged lists derive counts from the
// loaded collection and return false.
func (l *List) CountsTicket() (uint64, bool) {
	if l.ClientPaged() {
		return 0, false
	}
	l.countSeq++
	return l.countSeq, true
}

// ResolveCounts applies counts from the newest count ticket.
func (l *List) ResolveCounts(seq uint64, counts model.StatusCounts, err error) bool {
	if !l.alive || seq != l.countSeq {
		return false
	}
	if err != nil {
		logging.Warn("status counts failed", "resource", l.res.Name, "error", err)
		return true
	}
	l.counts = counts.Clone()
	return true
}

// Counts returns per-status badge counts.
func (l *List) Counts() model.StatusCounts {
	return l.counts.Clone()
}

package ui

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/moderator/internal/api"
	"github.com/abelbrown/moderator/internal/catalog"
	"github.com/abelbrown/moderator/internal/controller"
	"github.com/abelbrown/moderator/internal/controller/filters"
	"github.com/abelbrown/moderator/internal/debounce"
	"github.com/abelbrown/moderator/internal/model"
	"github.com/abelbrown/moderator/internal/otel"
	"github.com/abelbrown/moderator/internal/store"
	"github.com/abelbrown/moderator/internal/ui/dialog"
)

// pageSizes are the steps +/- move through.
var pageSizes = []int{5, 10, 20, 50}

// listChrome is the number of lines around the table: title, tabs,
// search, error, footer, help and spacing.
const listChrome = 9

type pendingOp int

const (
	pendStatus pendingOp = iota
	pendDelete
	pendDeleteTarget
)

// pending is what a dialog confirms.
type pending struct {
	op         pendingOp
	id         string
	bulk       bool
	transition catalog.Transition
}

type openDetailMsg struct {
	res catalog.Resource
	rec model.Record
}

// ListScreen is one resource's list: table, status tabs, search, paging
// and actions, driven by a controller.List.
type ListScreen struct {
	id   int
	env  *env
	res  catalog.Resource
	ctl  *controller.List
	keys listKeys

	table     table.Model
	search    textinput.Model
	searching bool
	debounce  *debounce.Debouncer
	pager     paginator.Model
	help      help.Model
	dialog    dialog.Model

	onlyFlagged bool

	width  int
	height int
}

func newListScreen(e *env, id int, res catalog.Resource) *ListScreen {
	if e.pageSize > 0 {
		res.DefaultPageSize = e.pageSize
	}
	ctl := controller.New(res, e.filters[res.Name]...)

	km := table.DefaultKeyMap()
	km.PageUp = key.NewBinding(key.WithKeys("pgup"))
	km.PageDown = key.NewBinding(key.WithKeys("pgdown"))
	km.HalfPageUp = key.NewBinding(key.WithDisabled())
	km.HalfPageDown = key.NewBinding(key.WithDisabled())

	cols := []table.Column{{Title: " ", Width: 3}}
	for _, c := range res.Columns {
		cols = append(cols, table.Column{Title: c.Title, Width: c.Width})
	}
	t := table.New(table.WithColumns(cols), table.WithFocused(true), table.WithHeight(10))
	t.KeyMap = km
	st := table.DefaultStyles()
	st.Header = st.Header.BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).Bold(true)
	st.Selected = st.Selected.Foreground(lipgloss.Color("255")).Background(colorPrimary)
	t.SetStyles(st)

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search " + strings.Join(res.SearchFields, ", ")
	ti.CharLimit = 120

	pg := paginator.New()
	pg.Type = paginator.Arabic

	return &ListScreen{
		id:       id,
		env:      e,
		res:      res,
		ctl:      ctl,
		keys:     newListKeys(res),
		table:    t,
		search:   ti,
		debounce: debounce.New(fmt.Sprintf("%s/%d/search", res.Name, id), e.debounce),
		pager:    pg,
		help:     help.New(),
		dialog:   dialog.New(),
	}
}

// Init restores saved preferences, then loads the first page.
func (s *ListScreen) Init() tea.Cmd {
	if s.env.journal != nil {
		return loadPrefsCmd(s.env.ctx, s.env.journal, s.id, s.res.Name)
	}
	return s.fetch(s.ctl.Load())
}

// Close detaches the controller so in-flight results are ignored.
func (s *ListScreen) Close() {
	s.ctl.Close()
	s.debounce.Cancel()
}

// Controller exposes the list state (for tests and the App).
func (s *ListScreen) Controller() *controller.List { return s.ctl }

// Loading reports whether a fetch is outstanding.
func (s *ListScreen) Loading() bool { return s.ctl.State() == controller.Loading }

func (s *ListScreen) fetch(t controller.Ticket) tea.Cmd {
	s.env.events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindFetchStart, Comp: "ui", Resource: s.res.Name, Seq: t.Seq})
	return fetchCmd(s.env.ctx, s.env.backend, s.id, s.res, t)
}

func (s *ListScreen) fetchIf(t controller.Ticket, ok bool) tea.Cmd {
	if !ok {
		return nil
	}
	return s.fetch(t)
}

func (s *ListScreen) setSize(w, h int) {
	s.width, s.height = w, h
	s.table.SetWidth(w)
	s.table.SetHeight(max(h-listChrome, 3))
	s.help.Width = w
}

// Update handles one message addressed to this screen.
func (s *ListScreen) Update(msg tea.Msg) tea.Cmd {
	cmd := s.update(msg)
	s.sync()
	return cmd
}

func (s *ListScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.setSize(msg.Width, msg.Height)
		return nil

	case PrefsLoaded:
		if msg.Err != nil {
			s.env.events.Error(otel.KindJournalError, "ui", msg.Err)
		} else if msg.Found {
			s.ctl.Restore(msg.Prefs.PageSize, msg.Prefs.SortField, msg.Prefs.SortOrder)
		}
		return s.fetch(s.ctl.Load())

	case PageLoaded:
		return s.resolve(msg)

	case CountsLoaded:
		if s.ctl.ResolveCounts(msg.Seq, msg.Counts, msg.Err) {
			if msg.Err != nil {
				s.env.events.Emit(otel.Event{Level: otel.LevelWarn, Kind: otel.KindCountsError, Comp: "ui", Resource: s.res.Name, Seq: msg.Seq, Err: msg.Err.Error()})
			} else {
				s.env.events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindCountsComplete, Comp: "ui", Resource: s.res.Name, Seq: msg.Seq, Count: msg.Counts.Total()})
			}
		}
		return nil

	case ActionDone:
		return s.complete(msg)

	case recordActionMsg:
		return s.actOn(msg)

	case debounce.Fired:
		if !s.debounce.Accept(msg) {
			return nil
		}
		return s.fetchIf(s.ctl.SetSearch(msg.Value))

	case dialog.Submitted:
		if s.dialog.State() != dialog.Submitting {
			return nil
		}
		p, ok := msg.Payload.(pending)
		if !ok {
			s.dialog.Finish(nil)
			return nil
		}
		return s.perform(p, msg.Reason)

	case dialog.Cancelled:
		return nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	// Cursor blinks and the like belong to whichever input has focus.
	var cmd tea.Cmd
	switch {
	case s.dialog.Active():
		s.dialog, cmd = s.dialog.Forward(msg)
	case s.searching:
		s.search, cmd = s.search.Update(msg)
	}
	return cmd
}

// resolve applies a fetch result through the controller.
func (s *ListScreen) resolve(msg PageLoaded) tea.Cmd {
	r := s.ctl.Resolve(msg.Seq, msg.Page, msg.Err)
	s.env.events.Fetch(s.res.Name, msg.Seq, len(msg.Page.Records), msg.Dur, r.Stale, msg.Err)
	if !r.Applied {
		return nil
	}
	if msg.Err != nil {
		return notify(controller.Notice{
			Level: controller.LevelError,
			Text:  fmt.Sprintf("Could not load %s: %s", strings.ToLower(s.res.Title), api.Message(msg.Err)),
		})
	}

	s.env.store.Dispatch(store.Action{Kind: store.Replace, Resource: s.res.Name, Records: s.ctl.Records()})

	if r.Next != nil {
		return s.fetch(*r.Next)
	}
	if seq, ok := s.ctl.CountsTicket(); ok {
		return countsCmd(s.env.ctx, s.env.backend, s.id, s.res, seq)
	}
	return nil
}

// complete reconciles a finished action.
func (s *ListScreen) complete(msg ActionDone) tea.Cmd {
	c := s.ctl.Complete(msg.Action, msg.Err)
	s.env.events.Action(s.res.Name, msg.Action.Op.String(), len(msg.Action.IDs), msg.Dur, msg.Err)

	if s.dialog.State() == dialog.Submitting {
		if msg.Err != nil {
			s.dialog.Finish(errors.New(c.Notice.Text))
		} else {
			s.dialog.Finish(nil)
		}
	}

	cmds := []tea.Cmd{journalCmd(s.env.ctx, s.env.journal, msg.Action, msg.Err)}
	if c.Notice.Text != "" {
		cmds = append(cmds, notify(c.Notice))
	}
	if len(c.Patched) > 0 {
		if msg.Action.Op == controller.OpStatus {
			s.env.store.Dispatch(store.Action{Kind: store.SetStatus, Resource: s.res.Name, IDs: c.Patched, Status: msg.Action.Transition.Status})
		} else {
			s.env.store.Dispatch(store.Action{Kind: store.Replace, Resource: s.res.Name, Records: s.ctl.Records()})
		}
	}
	if c.Refetch != nil {
		cmds = append(cmds, s.fetch(*c.Refetch))
	}
	return tea.Batch(cmds...)
}

func (s *ListScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	if s.dialog.Active() {
		var cmd tea.Cmd
		s.dialog, cmd = s.dialog.Update(msg)
		return cmd
	}
	if s.searching {
		return s.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, s.keys.Search):
		s.searching = true
		return s.search.Focus()
	case key.Matches(msg, s.keys.NextPage):
		return s.fetchIf(s.ctl.NextPage())
	case key.Matches(msg, s.keys.PrevPage):
		return s.fetchIf(s.ctl.PrevPage())
	case key.Matches(msg, s.keys.NextTab):
		return s.cycleStatus(1)
	case key.Matches(msg, s.keys.PrevTab):
		return s.cycleStatus(-1)
	case key.Matches(msg, s.keys.Sort):
		return s.cycleSort()
	case key.Matches(msg, s.keys.Order):
		return s.withPrefs(s.fetchIf(s.ctl.SetSort(s.ctl.Query().SortField)))
	case key.Matches(msg, s.keys.Bigger):
		return s.stepPageSize(1)
	case key.Matches(msg, s.keys.Smaller):
		return s.stepPageSize(-1)
	case key.Matches(msg, s.keys.Select):
		if r, ok := s.current(); ok {
			s.ctl.Toggle(r.ID)
		}
		return nil
	case key.Matches(msg, s.keys.SelectAll):
		s.ctl.ToggleAll()
		return nil
	case key.Matches(msg, s.keys.Refresh):
		return s.fetch(s.ctl.Refresh())
	case key.Matches(msg, s.keys.Open):
		if r, ok := s.current(); ok {
			res := s.res
			return func() tea.Msg { return openDetailMsg{res: res, rec: r} }
		}
		return nil
	case key.Matches(msg, s.keys.Copy):
		if r, ok := s.current(); ok {
			return copyCmd(s.env.copy, r.ID)
		}
		return nil
	case key.Matches(msg, s.keys.Delete):
		return s.askDelete()
	case key.Matches(msg, s.keys.Flag):
		return s.toggleFlag()
	case key.Matches(msg, s.keys.Export):
		return s.export()
	case key.Matches(msg, s.keys.Block):
		return s.toggleUserBlock()
	case s.res.Flaggable && msg.String() == "F":
		return s.toggleFlaggedOnly()
	}

	if t, bulk, ok := s.res.TransitionByKey(msg.String()); ok {
		return s.transition(t, bulk)
	}

	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)
	return cmd
}

func (s *ListScreen) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		s.searching = false
		s.search.Blur()
		s.search.SetValue("")
		s.debounce.Cancel()
		return s.fetchIf(s.ctl.SetSearch(""))
	case tea.KeyEnter:
		s.searching = false
		s.search.Blur()
		s.debounce.Cancel()
		return s.fetchIf(s.ctl.SetSearch(s.search.Value()))
	}

	before := s.search.Value()
	var cmd tea.Cmd
	s.search, cmd = s.search.Update(msg)
	if s.search.Value() != before {
		return tea.Batch(cmd, s.debounce.Trigger(s.search.Value()))
	}
	return cmd
}

func (s *ListScreen) cycleStatus(step int) tea.Cmd {
	tabs := s.res.Filters()
	i := slices.Index(tabs, s.ctl.Query().StatusFilter)
	next := tabs[(i+step+len(tabs))%len(tabs)]
	return s.fetchIf(s.ctl.SetStatusFilter(next))
}

func (s *ListScreen) cycleSort() tea.Cmd {
	fields := s.res.SortFields
	if len(fields) == 0 {
		return nil
	}
	i := slices.Index(fields, s.ctl.Query().SortField)
	next := fields[(i+1)%len(fields)]
	return s.withPrefs(s.fetchIf(s.ctl.SetSort(next)))
}

func (s *ListScreen) stepPageSize(step int) tea.Cmd {
	cur := s.ctl.Query().PageSize
	next := cur
	if step > 0 {
		for _, n := range pageSizes {
			if n > cur {
				next = n
				break
			}
		}
	} else {
		for _, n := range slices.Backward(pageSizes) {
			if n < cur {
				next = n
				break
			}
		}
	}
	if next == cur {
		return nil
	}
	return s.withPrefs(s.fetchIf(s.ctl.SetPageSize(next)))
}

// withPrefs saves the view shape alongside cmd.
func (s *ListScreen) withPrefs(cmd tea.Cmd) tea.Cmd {
	return tea.Batch(cmd, savePrefsCmd(s.env.ctx, s.env.journal, s.res.Name, s.ctl.Query()))
}

func (s *ListScreen) toggleFlaggedOnly() tea.Cmd {
	s.onlyFlagged = !s.onlyFlagged
	fs := slices.Clone(s.env.filters[s.res.Name])
	if s.onlyFlagged {
		fs = append(fs, filters.Flagged{})
	}
	return s.fetchIf(s.ctl.SetFilters(fs...))
}

// transition starts a status change, asking for a reason or confirmation
// first where needed.
func (s *ListScreen) transition(t catalog.Transition, bulk bool) tea.Cmd {
	if !bulk {
		r, ok := s.current()
		if !ok {
			return nil
		}
		return s.confirmTransition(pending{op: pendStatus, id: r.ID, transition: t}, r.ID)
	}
	n := len(s.ctl.Selected())
	if n == 0 {
		return notifyErr(controller.ErrNothingSelected)
	}
	return s.confirmTransition(pending{op: pendStatus, bulk: true, transition: t}, fmt.Sprintf("%d selected records", n))
}

func (s *ListScreen) confirmTransition(p pending, target string) tea.Cmd {
	t := p.transition
	title := capitalize(t.Name)
	prompt := fmt.Sprintf("%s %s → %s", title, target, s.res.StatusLabel(t.Status))
	switch {
	case t.NeedsReason:
		return s.dialog.AskReason(title, prompt, true, p)
	case p.bulk:
		s.dialog.Confirm(title, prompt+"?", p)
		return nil
	}
	return s.run(p, "")
}

func (s *ListScreen) askDelete() tea.Cmd {
	r, ok := s.current()
	if !ok {
		return nil
	}
	return s.confirmDelete(r)
}

func (s *ListScreen) confirmDelete(r model.Record) tea.Cmd {
	if s.res.Name == catalog.Reports {
		if _, _, err := api.ReportTarget(r); err != nil {
			return notifyErr(err)
		}
		s.dialog.Confirm("Delete reported content",
			fmt.Sprintf("Delete the %s %s reported in %s?", r.Text("type"), r.Text("resourceId"), r.ID),
			pending{op: pendDeleteTarget, id: r.ID})
		return nil
	}
	s.dialog.Confirm("Delete", fmt.Sprintf("Delete %s %s?", strings.ToLower(s.res.Title), r.ID), pending{op: pendDelete, id: r.ID})
	return nil
}

// actOn runs an action a detail screen asked for on one loaded record.
func (s *ListScreen) actOn(msg recordActionMsg) tea.Cmd {
	r, ok := s.ctl.Record(msg.id)
	if !ok {
		return notifyErr(fmt.Errorf("%s: %w", msg.id, controller.ErrUnknownRecord))
	}
	if msg.delete {
		return s.confirmDelete(r)
	}
	return s.confirmTransition(pending{op: pendStatus, id: r.ID, transition: msg.transition}, r.ID)
}

// perform runs a confirmed dialog.
func (s *ListScreen) perform(p pending, reason string) tea.Cmd {
	a, err := s.prepare(p, reason)
	if err != nil {
		s.dialog.Finish(err)
		return nil
	}
	return s.start(a)
}

// run prepares and starts an action that needs no dialog.
func (s *ListScreen) run(p pending, reason string) tea.Cmd {
	a, err := s.prepare(p, reason)
	if err != nil {
		return notifyErr(err)
	}
	return s.start(a)
}

func (s *ListScreen) prepare(p pending, reason string) (controller.Action, error) {
	switch p.op {
	case pendDelete:
		return s.ctl.PrepareRemove(p.id)
	case pendDeleteTarget:
		return s.ctl.PrepareRemoveTarget(p.id)
	}
	if p.bulk {
		return s.ctl.PrepareBulkStatus(p.transition, reason)
	}
	return s.ctl.PrepareStatus(p.id, p.transition, reason)
}

func (s *ListScreen) start(a controller.Action) tea.Cmd {
	s.env.events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindActionStart, Comp: "ui", Resource: s.res.Name, Op: a.Op.String(), Count: len(a.IDs)})
	return actionCmd(s.env.ctx, s.env.backend, s.id, s.res, a)
}

func (s *ListScreen) toggleFlag() tea.Cmd {
	r, ok := s.current()
	if !ok {
		return nil
	}
	flagged := !r.Bool(fieldFlagged)
	name := "flag"
	if !flagged {
		name = "unflag"
	}
	a, err := s.ctl.PreparePatch(controller.OpFlag, name, []string{r.ID}, map[string]any{fieldFlagged: flagged}, model.Record{})
	if err != nil {
		return notifyErr(err)
	}
	return s.start(a)
}

// toggleUserBlock blocks or unblocks the user a report is about, and
// patches every loaded report filed against that user.
func (s *ListScreen) toggleUserBlock() tea.Cmd {
	r, ok := s.current()
	if !ok {
		return nil
	}
	uid := r.Text(fieldUserID)
	if uid == "" {
		return notify(controller.Notice{Level: controller.LevelWarn, Text: fmt.Sprintf("Report %s has no user", r.ID)})
	}
	status, name := "blocked", "block user"
	if r.Text(fieldUserStatus) == "blocked" {
		status, name = "active", "unblock user"
	}
	a, err := s.ctl.PreparePatch(controller.OpUserStatus, name, s.ctl.IDsWhere(fieldUserID, uid),
		map[string]any{fieldUserStatus: status}, r)
	if err != nil {
		return notifyErr(err)
	}
	return s.start(a)
}

func (s *ListScreen) export() tea.Cmd {
	recs, err := s.ctl.SelectedRecords()
	if err != nil {
		return notifyErr(err)
	}
	return exportCmd(s.env.exportDir, s.res, s.ctl.Query().StatusFilter, recs)
}

func (s *ListScreen) current() (model.Record, bool) {
	w := s.ctl.Window()
	c := s.table.Cursor()
	if c < 0 || c >= len(w) {
		return model.Record{}, false
	}
	return w[c], true
}

// sync rebuilds table rows and the pager from the controller.
func (s *ListScreen) sync() {
	window := s.ctl.Window()
	rows := make([]table.Row, len(window))
	for i, r := range window {
		row := table.Row{"[ ]"}
		if s.ctl.IsSelected(r.ID) {
			row[0] = "[x]"
		}
		for _, c := range s.res.Columns {
			row = append(row, s.cell(r, c.Field))
		}
		rows[i] = row
	}
	cursor := s.table.Cursor()
	s.table.SetRows(rows)
	// SetCursor on an empty table leaves -1 behind.
	if cursor < 0 {
		s.table.SetCursor(0)
	}
	if cursor >= len(rows) {
		s.table.SetCursor(max(len(rows)-1, 0))
	}

	s.pager.PerPage = 1
	s.pager.SetTotalPages(max(s.ctl.TotalPages(), 1))
	s.pager.Page = s.ctl.Query().Page
}

func (s *ListScreen) cell(r model.Record, field string) string {
	switch field {
	case model.FieldStatus:
		return s.res.StatusLabel(r.Status)
	case fieldFlagged:
		if r.Bool(fieldFlagged) {
			return "⚑"
		}
		return ""
	case "createdAt", "updatedAt":
		if t, ok := r.Time(field); ok {
			return t.Local().Format("2006-01-02 15:04")
		}
	}
	return r.Text(field)
}

// View renders the screen. spin is the shared spinner frame.
func (s *ListScreen) View(spin string) string {
	if s.dialog.Active() {
		return lipgloss.Place(s.width, s.height, lipgloss.Center, lipgloss.Center, s.dialog.View())
	}

	var b strings.Builder

	title := TitleStyle.Render(s.res.Title)
	state := ""
	switch s.ctl.State() {
	case controller.Loading:
		state = spin + " loading"
	case controller.Ready:
		state = MutedStyle.Render(fmt.Sprintf("%d of %d", s.ctl.MatchedCount(), s.ctl.TotalCount()))
	}
	b.WriteString(title + " " + state + "\n")
	b.WriteString(s.renderTabs() + "\n")

	if s.searching || s.ctl.Query().SearchTerm != "" {
		bar := s.search.View()
		if !s.searching {
			bar = "/ " + s.ctl.Query().SearchTerm
		}
		b.WriteString(FilterBar.Render(bar) + " " + FilterBarCount.Render(fmt.Sprintf("%d matches", s.ctl.MatchedCount())))
	}
	b.WriteString("\n")

	if s.ctl.State() == controller.Failed {
		b.WriteString(ErrorStyle.Render("Error: "+api.Message(s.ctl.Err())) + MutedStyle.Render(" (r to retry)"))
	}
	b.WriteString("\n")

	if len(s.ctl.Window()) == 0 && s.ctl.State() == controller.Ready {
		b.WriteString(MutedStyle.Render("  No records") + "\n")
	} else {
		b.WriteString(s.table.View() + "\n")
	}

	b.WriteString(s.footer() + "\n")
	b.WriteString(s.help.View(s.keys))
	return b.String()
}

func (s *ListScreen) renderTabs() string {
	counts := s.ctl.Counts()
	current := s.ctl.Query().StatusFilter
	var tabs []string
	for _, f := range s.res.Filters() {
		label := s.res.StatusLabel(f)
		n, known := counts[f], len(counts) > 0
		if f == model.StatusAll {
			label, n = "All", counts.Total()
		}
		if known && f != s.res.DeletedFilter {
			label = fmt.Sprintf("%s %d", label, n)
		}
		if f == current {
			tabs = append(tabs, ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, TabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (s *ListScreen) footer() string {
	q := s.ctl.Query()
	parts := []string{
		s.pager.View(),
		fmt.Sprintf("size %d", q.PageSize),
	}
	if q.SortField != "" {
		parts = append(parts, fmt.Sprintf("sort %s %s", q.SortField, q.SortOrder))
	}
	if n := len(s.ctl.Selected()); n > 0 {
		parts = append(parts, StatusBarKey.Render(fmt.Sprintf("%d selected", n)))
	}
	if s.res.Flaggable {
		parts = append(parts, fmt.Sprintf("%d flagged", len(s.ctl.IDsWhere(fieldFlagged, "true"))))
		if s.onlyFlagged {
			parts = append(parts, "flagged only")
		}
	}
	if s.ctl.Busy() {
		parts = append(parts, "working…")
	}
	return StatusBarText.Render(strings.Join(parts, " · "))
}

// Searching reports whether the search input has focus.
func (s *ListScreen) Searching() bool { return s.searching }

// DialogActive reports whether a dialog is capturing input.
func (s *ListScreen) DialogActive() bool { return s.dialog.Active() }

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

package controller

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/abelbrown/moderator/internal/api"
	"github.com/abelbrown/moderator/internal/catalog"
	"github.com/abelbrown/moderator/internal/model"
)

var (
	// ErrNothingSelected is returned by bulk preparations on an empty
	// selection. No request is made.
	ErrNothingSelected = errors.New("nothing selected")
	// ErrBusy is returned while another action is in flight.
	ErrBusy = errors.New("another action is still running")
	// ErrUnknownRecord is returned for ids that are not loaded.
	ErrUnknownRecord = errors.New("record is not loaded")
	// ErrReasonRequired is returned when a transition needs a reason and
	// none was given.
	ErrReasonRequired = errors.New("a reason is required")
)

// Op is the backend call an action makes.
type Op int

const (
	OpStatus Op = iota
	OpDelete
	OpDeleteTarget // delete what a report points at
	OpFlag
	OpUserStatus // block or unblock the user a report is about
)

func (o Op) String() string {
	switch o {
	case OpStatus:
		return "status"
	case OpDelete:
		return "delete"
	case OpDeleteTarget:
		return "delete-target"
	case OpFlag:
		return "flag"
	case OpUserStatus:
		return "user-status"
	}
	return "unknown"
}

// Action is one prepared mutation. It is plain data; the caller performs
// the request and passes the outcome to Complete.
type Action struct {
	Op   Op
	Name string // verb for notices ("approve", "delete")

	Resource string
	IDs      []string
	Bulk     bool

	Transition catalog.Transition
	Reason     string

	// Fields is what a successful patch-style action writes locally.
	Fields map[string]any
	// Subject is the record the call is about when it is not one of IDs
	// (the report whose target or user is acted on).
	Subject model.Record
}

// Level grades a notice.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarn
	LevelError
)

// Notice is a transient message for the user.
type Notice struct {
	Level Level
	Text  string
}

// Completion is the reconciliation of a finished action.
type Completion struct {
	Notice Notice
	// Refetch is set when the result cannot be patched locally.
	Refetch *Ticket
	// Patched lists ids rewritten in place.
	Patched []string
}

// NoticeFor turns a preparation error into a notice.
func NoticeFor(err error) Notice {
	if errors.Is(err, ErrNothingSelected) {
		return Notice{Level: LevelWarn, Text: "Nothing selected"}
	}
	return Notice{Level: LevelWarn, Text: err.Error()}
}

// Busy reports whether an action is in flight.
func (l *List) Busy() bool { return l.busy }

// PrepareStatus moves one loaded record through t.
func (l *List) PrepareStatus(id string, t catalog.Transition, reason string) (Action, error) {
	if _, ok := l.Record(id); !ok {
		return Action{}, fmt.Errorf("%s %s: %w", t.Name, id, ErrUnknownRecord)
	}
	return l.prepareStatus([]string{id}, false, t, reason)
}

// PrepareBulkStatus moves every selected record through t.
func (l *List) PrepareBulkStatus(t catalog.Transition, reason string) (Action, error) {
	ids := l.Selected()
	if len(ids) == 0 {
		return Action{}, ErrNothingSelected
	}
	return l.prepareStatus(ids, true, t, reason)
}

func (l *List) prepareStatus(ids []string, bulk bool, t catalog.Transition, reason string) (Action, error) {
	if t.NeedsReason && reason == "" {
		return Action{}, ErrReasonRequired
	}
	if !l.res.HasStatus(t.Status) {
		return Action{}, fmt.Errorf("%s: unknown status %q", l.res.Name, t.Status)
	}
	return l.begin(Action{
		Op:         OpStatus,
		Name:       t.Name,
		Resource:   l.res.Name,
		IDs:        ids,
		Bulk:       bulk,
		Transition: t,
		Reason:     reason,
	})
}

// PrepareRemove deletes one loaded record.
func (l *List) PrepareRemove(id string) (Action, error) {
	if _, ok := l.Record(id); !ok {
		return Action{}, fmt.Errorf("delete %s: %w", id, ErrUnknownRecord)
	}
	return l.begin(Action{Op: OpDelete, Name: "delete", Resource: l.res.Name, IDs: []string{id}})
}

// PrepareRemoveTarget deletes the record a loaded report points at.
func (l *List) PrepareRemoveTarget(id string) (Action, error) {
	rec, ok := l.Record(id)
	if !ok {
		return Action{}, fmt.Errorf("delete target of %s: %w", id, ErrUnknownRecord)
	}
	if _, _, err := api.ReportTarget(rec); err != nil {
		return Action{}, err
	}
	return l.begin(Action{Op: OpDeleteTarget, Name: "delete reported content", Resource: l.res.Name, IDs: []string{id}, Subject: rec})
}

// PreparePatch describes a field-level change (flag, user status) on ids.
// On success every id is patched with fields; no refetch is needed.
func (l *List) PreparePatch(op Op, name string, ids []string, fields map[string]any, subject model.Record) (Action, error) {
	if len(ids) == 0 {
		return Action{}, ErrNothingSelected
	}
	for _, id := range ids {
		if _, ok := l.Record(id); !ok {
			return Action{}, fmt.Errorf("%s %s: %w", name, id, ErrUnknownRecord)
		}
	}
	return l.begin(Action{Op: op, Name: name, Resource: l.res.Name, IDs: ids, Fields: fields, Subject: subject})
}

// SelectedRecords returns the selected records in window order.
func (l *List) SelectedRecords() ([]model.Record, error) {
	var out []model.Record
	for _, r := range l.Window() {
		if l.selection.Has(r.ID) {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, ErrNothingSelected
	}
	return out, nil
}

func (l *List) begin(a Action) (Action, error) {
	if l.busy {
		return Action{}, ErrBusy
	}
	l.busy = true
	return a, nil
}

// Complete reconciles a finished action. On failure nothing local changes
// and the selection is kept for a retry. On success records are patched or
// refetched and a bulk selection is cleared.
func (l *List) Complete(a Action, err error) Completion {
	l.busy = false
	if !l.alive {
		return Completion{}
	}

	if err != nil {
		return Completion{Notice: Notice{
			Level: LevelError,
			Text:  fmt.Sprintf("Could not %s %s: %s", a.Name, subject(a), api.Message(err)),
		}}
	}

	c := Completion{Notice: Notice{
		Level: LevelSuccess,
		Text:  fmt.Sprintf("%s %s: done", capitalize(a.Name), subject(a)),
	}}

	switch a.Op {
	case OpStatus:
		if l.patchable(a.Transition.Status) {
			for _, id := range a.IDs {
				if l.Patch(id, map[string]any{model.FieldStatus: a.Transition.Status}) {
					c.Patched = append(c.Patched, id)
				}
			}
		} else {
			t := l.issue()
			c.Refetch = &t
		}
	case OpDelete, OpDeleteTarget:
		t := l.issue()
		c.Refetch = &t
	case OpFlag, OpUserStatus:
		for _, id := range a.IDs {
			if l.Patch(id, a.Fields) {
				c.Patched = append(c.Patched, id)
			}
		}
	}

	if a.Bulk {
		l.selection.Clear()
	}
	return c
}

// patchable reports whether records moving to status stay in view. Client
// paging always patches: the whole collection is loaded and the view is
// recomputed locally.
func (l *List) patchable(status string) bool {
	if l.ClientPaged() {
		return true
	}
	return !l.query.FiltersByStatus() || l.query.StatusFilter == status
}

// Toggle flips a visible record's checkbox. Ids outside the window are
// ignored.
func (l *List) Toggle(id string) bool {
	if !slices.Contains(model.IDs(l.Window()), id) {
		return false
	}
	l.selection.Toggle(id)
	return true
}

// SelectAll selects every visible record.
func (l *List) SelectAll() {
	l.selection.SelectAll(model.IDs(l.Window()))
}

// ToggleAll selects every visible record, or clears when all are selected.
func (l *List) ToggleAll() {
	l.selection.ToggleAll(model.IDs(l.Window()))
}

// ClearSelection empties the selection.
func (l *List) ClearSelection() {
	l.selection.Clear()
}

// IsSelected reports whether id is checked.
func (l *List) IsSelected(id string) bool {
	return l.selection.Has(id)
}

// Selected returns checked ids in window order.
func (l *List) Selected() []string {
	var ids []string
	for _, r := range l.Window() {
		if l.selection.Has(r.ID) {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

func subject(a Action) string {
	if len(a.IDs) == 1 {
		return a.IDs[0]
	}
	return fmt.Sprintf("%d records", len(a.IDs))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

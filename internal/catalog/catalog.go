// Package catalog describes every entity screen of the console: where its
// collection lives, how it pages, which statuses it has and how status
// transitions are sent to the backend.
//
// Descriptors are plain data. The API client reads them to build requests,
// the list controller reads paging and defaults, and the views read columns,
// labels and key bindings.
package catalog

import (
	"fmt"
	"strings"
)

// Paging selects where the visible window is cut.
type Paging int

const (
	// ServerPaging asks the backend for exactly one page.
	ServerPaging Paging = iota
	// ClientPaging loads the whole collection once and slices locally.
	ClientPaging
)

// MutationStyle is how a single-record status change is sent.
type MutationStyle int

const (
	// StylePut sends PUT /<path>/<id> {status}.
	StylePut MutationStyle = iota
	// StylePathToken sends PATCH /<path>/<id>/<TOKEN> {reason?}.
	StylePathToken
	// StyleStatusPatch sends PATCH /<path>/<id>/status {status}.
	StyleStatusPatch
)

func (s MutationStyle) String() string {
	switch s {
	case StylePut:
		return "put"
	case StylePathToken:
		return "path-token"
	case StyleStatusPatch:
		return "status-patch"
	}
	return "unknown"
}

// Status is one value of a resource's status enum.
type Status struct {
	Value string
	Label string
}

// Transition moves records to a target status.
type Transition struct {
	Name        string // verb shown in notices and help ("approve")
	Key         string // single-record key binding; the upper-case form acts on the selection
	Status      string // resulting status value
	PathToken   string // StylePathToken segment; defaults to Status
	BulkToken   string // segment in PATCH /<path>/<token>/multiple; empty means fan out
	NeedsReason bool
}

// Token returns the path segment used for single-record path-token calls.
func (t Transition) Token() string {
	if t.PathToken != "" {
		return t.PathToken
	}
	return t.Status
}

// BulkKey is the binding that applies the transition to the selection.
func (t Transition) BulkKey() string {
	return strings.ToUpper(t.Key)
}

// Column is one rendered table column.
type Column struct {
	Title string
	Field string
	Width int
}

// Resource describes one entity collection.
type Resource struct {
	Name   string // stable identifier ("posts")
	Title  string // screen title
	Path   string // collection path relative to the API base ("/posts")
	Paging Paging

	// PageBase is the backend's index of the first page (0 or 1).
	PageBase int
	// ListKey is the envelope key holding records; defaults to "data".
	ListKey string

	Statuses    []Status
	Transitions []Transition
	Style       MutationStyle

	// BulkIDsField names the id array in bulk bodies ("productIds").
	BulkIDsField string

	Columns      []Column
	SortFields   []string
	SearchFields []string

	DefaultSort     string
	DefaultPageSize int

	Deletable  bool
	Flaggable  bool
	Exportable bool

	// DeletedFilter, when set, is an extra pseudo-status that lists soft
	// deleted records through the isDeleted query parameter.
	DeletedFilter string
}

// Envelope returns the list envelope key.
func (r Resource) Envelope() string {
	if r.ListKey != "" {
		return r.ListKey
	}
	return "data"
}

// StatusLabel returns the display label for a status value.
func (r Resource) StatusLabel(value string) string {
	if value == r.DeletedFilter && value != "" {
		return "Deleted"
	}
	for _, s := range r.Statuses {
		if s.Value == value {
			return s.Label
		}
	}
	if value == "" {
		return "-"
	}
	return value
}

// Filters returns the status filter cycle: "all", every status, then the
// deleted pseudo-filter when present.
func (r Resource) Filters() []string {
	out := make([]string, 0, len(r.Statuses)+2)
	out = append(out, "all")
	for _, s := range r.Statuses {
		out = append(out, s.Value)
	}
	if r.DeletedFilter != "" {
		out = append(out, r.DeletedFilter)
	}
	return out
}

// HasStatus reports whether value is a real status of the resource.
func (r Resource) HasStatus(value string) bool {
	for _, s := range r.Statuses {
		if s.Value == value {
			return true
		}
	}
	return false
}

// TransitionByKey finds the transition bound to key, matching either the
// single-record or the bulk form. bulk reports which one matched.
func (r Resource) TransitionByKey(key string) (t Transition, bulk bool, ok bool) {
	for _, tr := range r.Transitions {
		if tr.Key == key {
			return tr, false, true
		}
		if tr.BulkKey() == key && tr.BulkKey() != tr.Key {
			return tr, true, true
		}
	}
	return Transition{}, false, false
}

// TransitionTo returns the transition targeting status.
func (r Resource) TransitionTo(status string) (Transition, bool) {
	for _, tr := range r.Transitions {
		if tr.Status == status {
			return tr, true
		}
	}
	return Transition{}, false
}

// Allowed lists the transitions that would change a record with the given
// status. Authorization stays with the backend; this only hides no-ops.
func (r Resource) Allowed(current string) []Transition {
	out := make([]Transition, 0, len(r.Transitions))
	for _, tr := range r.Transitions {
		if tr.Status != current {
			out = append(out, tr)
		}
	}
	return out
}

// Validate checks the descriptor for mistakes that would only surface at
// request time.
func (r Resource) Validate() error {
	if r.Name == "" || r.Path == "" {
		return fmt.Errorf("resource %q: name and path are required", r.Name)
	}
	if !strings.HasPrefix(r.Path, "/") {
		return fmt.Errorf("resource %q: path must start with /", r.Name)
	}
	if r.PageBase != 0 && r.PageBase != 1 {
		return fmt.Errorf("resource %q: page base must be 0 or 1", r.Name)
	}
	if r.DefaultPageSize <= 0 {
		return fmt.Errorf("resource %q: default page size must be positive", r.Name)
	}
	keys := map[string]string{}
	for _, tr := range r.Transitions {
		if !r.HasStatus(tr.Status) {
			return fmt.Errorf("resource %q: transition %q targets unknown status %q", r.Name, tr.Name, tr.Status)
		}
		if prev, dup := keys[tr.Key]; dup {
			return fmt.Errorf("resource %q: key %q bound to both %q and %q", r.Name, tr.Key, prev, tr.Name)
		}
		keys[tr.Key] = tr.Name
		if tr.BulkToken != "" && r.BulkIDsField == "" {
			return fmt.Errorf("resource %q: transition %q has a bulk token but no bulk ids field", r.Name, tr.Name)
		}
	}
	return nil
}

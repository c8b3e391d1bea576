package controller

import (
	"github.com/abelbrown/moderator/internal/model"
)

// Filter is a record predicate applied to client-paged collections before
// the status filter, search, sort and window.
//
// Filters narrow the loaded collection the way the status tabs do, so
// installing or removing one resets the page. They must not mutate the
// record they are given.
type Filter interface {
	// Name returns the filter name for logging and the status line.
	Name() string

	// Keep reports whether the record stays in view.
	Keep(r model.Record) bool
}

// FuncFilter adapts a function to Filter.
//
// Example:
//
//	flagged := NewFuncFilter("flagged", func(r model.Record) bool {
//	    return r.Bool("isFlagged")
//	})
type FuncFilter struct {
	name string
	fn   func(model.Record) bool
}

// NewFuncFilter creates a filter from a predicate.
func NewFuncFilter(name string, fn func(model.Record) bool) *FuncFilter {
	return &FuncFilter{name: name, fn: fn}
}

// Name returns the filter name.
func (f *FuncFilter) Name() string {
	return f.name
}

// Keep runs the predicate.
func (f *FuncFilter) Keep(r model.Record) bool {
	return f.fn(r)
}

func applyFilters(records []model.Record, filters []Filter) []model.Record {
	if len(filters) == 0 {
		return records
	}
	out := make([]model.Record, 0, len(records))
next:
	for _, r := range records {
		for _, f := range filters {
			if !f.Keep(r) {
				continue next
			}
		}
		out = append(out, r)
	}
	return out
}

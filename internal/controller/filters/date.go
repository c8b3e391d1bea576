// Package filters provides built-in client-side record filters.
//
// All filters in this package are stateless values and safe for concurrent use.
package filters

import (
	"time"

	"github.com/abelbrown/moderator/internal/model"
)

// DateRange keeps records whose Field falls within [From, To]. A zero bound
// is open. Records whose field does not parse as a date are dropped.
type DateRange struct {
	Field string
	From  time.Time
	To    time.Time
}

// NewDateRange creates a date range filter. To is inclusive to the end of
// its day when it carries no time of day.
func NewDateRange(field string, from, to time.Time) *DateRange {
	if !to.IsZero() && to.Equal(to.Truncate(24*time.Hour)) {
		to = to.Add(24*time.Hour - time.Nanosecond)
	}
	return &DateRange{Field: field, From: from, To: to}
}

// Name returns "date".
func (f *DateRange) Name() string {
	return "date"
}

// Keep reports whether the record's date is within range.
func (f *DateRange) Keep(r model.Record) bool {
	t, ok := r.Time(f.Field)
	if !ok {
		return false
	}
	if !f.From.IsZero() && t.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && t.After(f.To) {
		return false
	}
	return true
}

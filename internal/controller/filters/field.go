package filters

import (
	"strings"

	"github.com/abelbrown/moderator/internal/model"
)

// FieldEquals keeps records whose Field matches one of Values, ignoring
// case. Used for payout method and country pickers.
type FieldEquals struct {
	Field  string
	Values []string
}

// NewFieldEquals creates a field filter. With no values it keeps everything.
func NewFieldEquals(field string, values ...string) *FieldEquals {
	return &FieldEquals{Field: field, Values: values}
}

// Name returns the field name.
func (f *FieldEquals) Name() string {
	return f.Field
}

// Keep reports whether the field matches.
func (f *FieldEquals) Keep(r model.Record) bool {
	if len(f.Values) == 0 {
		return true
	}
	v := r.Text(f.Field)
	for _, want := range f.Values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

// Flagged keeps only flagged records.
type Flagged struct{}

// Name returns "flagged".
func (Flagged) Name() string { return "flagged" }

// Keep reports whether isFlagged is set.
func (Flagged) Keep(r model.Record) bool { return r.Bool("isFlagged") }

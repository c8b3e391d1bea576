package model

import (
	"cmp"
	"encoding/json"
	"strings"
)

// SortOrder is the direction of a sort.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Flip returns the opposite direction.
func (o SortOrder) Flip() SortOrder {
	if o == Asc {
		return Desc
	}
	return Asc
}

// StatusAll is the status filter that matches every record.
const StatusAll = "all"

// Query describes the slice of a collection the user wants to see.
// Page is zero-based here regardless of what the backend expects.
type Query struct {
	Page         int
	PageSize     int
	SortField    string
	SortOrder    SortOrder
	SearchTerm   string
	StatusFilter string
}

// FiltersByStatus reports whether the query narrows to one status.
func (q Query) FiltersByStatus() bool {
	return q.StatusFilter != "" && q.StatusFilter != StatusAll
}

// PageResult is one resolved fetch. It replaces the previous result wholesale.
type PageResult struct {
	Records      []Record
	TotalCount   int
	MatchedCount int
	TotalPages   int
}

// StatusCounts maps a status value to the number of records carrying it.
// Used for badges only, never for pagination.
type StatusCounts map[string]int

// Total sums every bucket.
func (c StatusCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Clone returns an independent copy.
func (c StatusCounts) Clone() StatusCounts {
	if c == nil {
		return nil
	}
	out := make(StatusCounts, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Move shifts one record from one bucket to another. Buckets never go
// negative; counts are advisory.
func (c StatusCounts) Move(from, to string) {
	if c == nil || from == to {
		return
	}
	if c[from] > 0 {
		c[from]--
	}
	c[to]++
}

// CountByStatus derives counts from a loaded set of records.
func CountByStatus(records []Record) StatusCounts {
	counts := make(StatusCounts)
	for _, r := range records {
		counts[r.Status]++
	}
	return counts
}

// Compare orders two records by one field. Numbers compare numerically,
// timestamps chronologically, everything else as case-folded text. Missing
// values sort first.
func Compare(a, b Record, field string) int {
	av, aok := a.Get(field)
	bv, bok := b.Get(field)
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	}

	if an, ok := numberOf(av); ok {
		if bn, ok := numberOf(bv); ok {
			return cmp.Compare(an, bn)
		}
	}
	if at, ok := a.Time(field); ok {
		if bt, ok := b.Time(field); ok {
			return at.Compare(bt)
		}
	}
	return strings.Compare(strings.ToLower(stringOf(av)), strings.ToLower(stringOf(bv)))
}

// Matches reports whether any of fields contains term, ignoring case. An
// empty term matches everything.
func Matches(r Record, term string, fields []string) bool {
	term = strings.TrimSpace(strings.ToLower(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(r.Text(f)), term) {
			return true
		}
	}
	return false
}

func numberOf(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case float64:
		return t, true
	case int:
		return float64(t), true
	}
	return 0, false
}

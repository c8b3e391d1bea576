// Package model provides the data types shared by the API client, the list
// controller and the views.
//
// Records are opaque to everything except their identifier and status. The
// backend owns their lifecycle; this side only mirrors what it returned.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Field names with meaning to the controller.
const (
	FieldID     = "id"
	FieldMongo  = "_id"
	FieldStatus = "status"
)

// Record is one row returned by a list endpoint.
//
// Fields holds the full decoded object, including id and status. Records are
// treated as values: With returns a copy and never mutates the receiver, so a
// PageResult handed to a view cannot change underneath it.
type Record struct {
	ID     string
	Status string
	Fields map[string]any
}

// NewRecord builds a record from decoded fields, extracting id and status.
func NewRecord(fields map[string]any) Record {
	r := Record{Fields: fields}
	if r.Fields == nil {
		r.Fields = map[string]any{}
	}
	r.ID = idOf(r.Fields)
	r.Status = stringOf(r.Fields[FieldStatus])
	return r
}

// UnmarshalJSON accepts either "_id" or "id" as the identifier.
func (r *Record) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	*r = NewRecord(fields)
	if r.ID == "" {
		return fmt.Errorf("decode record: missing id")
	}
	return nil
}

// MarshalJSON writes the underlying fields.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Fields)
}

// With returns a copy of r with fields overwritten. A "status" key also
// updates Status. The identifier cannot be changed this way.
func (r Record) With(fields map[string]any) Record {
	cp := make(map[string]any, len(r.Fields)+len(fields))
	for k, v := range r.Fields {
		cp[k] = v
	}
	for k, v := range fields {
		if k == FieldID || k == FieldMongo {
			continue
		}
		cp[k] = v
	}
	out := Record{ID: r.ID, Status: r.Status, Fields: cp}
	if s, ok := fields[FieldStatus]; ok {
		out.Status = stringOf(s)
	}
	return out
}

// Get returns a field value, walking dotted paths into nested objects
// ("user.name").
func (r Record) Get(field string) (any, bool) {
	var cur any = r.Fields
	for _, part := range strings.Split(field, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Text returns a field formatted for display. Missing fields render empty.
func (r Record) Text(field string) string {
	v, ok := r.Get(field)
	if !ok {
		return ""
	}
	return stringOf(v)
}

// Bool reports a boolean field, false when missing or not a bool.
func (r Record) Bool(field string) bool {
	v, ok := r.Get(field)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Time parses a field as an RFC3339 timestamp.
func (r Record) Time(field string) (time.Time, bool) {
	s := r.Text(field)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Keys returns the record's top-level field names, sorted.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports whether two records have the same identity, status and
// field values. Used by tests asserting untouched caches.
func (r Record) Equal(o Record) bool {
	if r.ID != o.ID || r.Status != o.Status || len(r.Fields) != len(o.Fields) {
		return false
	}
	a, errA := json.Marshal(r.Fields)
	b, errB := json.Marshal(o.Fields)
	return errA == nil && errB == nil && bytes.Equal(a, b)
}

// IDs returns the identifiers of records in order.
func IDs(records []Record) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}

func idOf(fields map[string]any) string {
	if v, ok := fields[FieldMongo]; ok {
		if s := stringOf(v); s != "" {
			return s
		}
	}
	return stringOf(fields[FieldID])
}

func stringOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any:
		// Populated references ({"_id": ..., "name": ...}) display by name.
		for _, k := range []string{"name", "title", "email", FieldMongo, FieldID} {
			if s, ok := t[k]; ok {
				return stringOf(s)
			}
		}
		return ""
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			parts = append(parts, stringOf(e))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(t)
	}
}

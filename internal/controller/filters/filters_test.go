package filters

import (
	"testing"
	"time"

	"github.com/abelbrown/moderator/internal/model"
)

func rec(fields map[string]any) model.Record {
	fields["id"] = "x"
	return model.NewRecord(fields)
}

func TestDateRange(t *testing.T) {
	jan := func(d int) time.Time { return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC) }
	f := NewDateRange("requestDate", jan(5), jan(10))

	tests := []struct {
		date string
		want bool
	}{
		{"2025-01-04", false},
		{"2025-01-05", true},
		{"2025-01-10", true},
		{"2025-01-10T18:30:00Z", true},
		{"2025-01-11", false},
		{"not a date", false},
	}
	for _, tt := range tests {
		if got := f.Keep(rec(map[string]any{"requestDate": tt.date})); got != tt.want {
			t.Errorf("Keep(%q) = %v, want %v", tt.date, got, tt.want)
		}
	}

	open := NewDateRange("requestDate", time.Time{}, time.Time{})
	if !open.Keep(rec(map[string]any{"requestDate": "1999-01-01"})) {
		t.Error("open range should keep every dated record")
	}
	if f.Name() != "date" {
		t.Errorf("Name() = %q", f.Name())
	}
}

func TestFieldEquals(t *testing.T) {
	f := NewFieldEquals("method", "bank", "wise")
	if !f.Keep(rec(map[string]any{"method": "Bank"})) {
		t.Error("case-insensitive match failed")
	}
	if f.Keep(rec(map[string]any{"method": "paypal"})) {
		t.Error("paypal should be filtered out")
	}
	if !NewFieldEquals("method").Keep(rec(map[string]any{})) {
		t.Error("empty filter should keep everything")
	}
}

func TestFlagged(t *testing.T) {
	if (Flagged{}).Keep(rec(map[string]any{"isFlagged": false})) {
		t.Error("unflagged kept")
	}
	if !(Flagged{}).Keep(rec(map[string]any{"isFlagged": true})) {
		t.Error("flagged dropped")
	}
}

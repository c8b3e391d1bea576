package otel

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
	"time"
)

// Filter selects events when reading a log back.
type Filter struct {
	// Kind matches exactly, or by prefix when it ends in ".".
	Kind     string
	Resource string
	MinLevel Level
	Since    time.Time
}

// Match reports whether e passes the filter.
func (f Filter) Match(e Event) bool {
	if f.Kind != "" {
		k := string(e.Kind)
		if strings.HasSuffix(f.Kind, ".") {
			if !strings.HasPrefix(k, f.Kind) {
				return false
			}
		} else if k != f.Kind {
			return false
		}
	}
	if f.Resource != "" && e.Resource != f.Resource {
		return false
	}
	if f.MinLevel != "" && e.Level.rank() < f.MinLevel.rank() {
		return false
	}
	if !f.Since.IsZero() && e.Time.Before(f.Since) {
		return false
	}
	return true
}

// Read decodes a JSONL event log, keeping matching events. Lines that do
// not decode are skipped and counted.
func Read(r io.Reader, f Filter) (events []Event, skipped int, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Event
		if json.Unmarshal(line, &e) != nil {
			skipped++
			continue
		}
		if e.DurMs > 0 {
			e.Dur = time.Duration(e.DurMs * float64(time.Millisecond))
		}
		if f.Match(e) {
			events = append(events, e)
		}
	}
	return events, skipped, sc.Err()
}

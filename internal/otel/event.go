// Package otel records what the console did as structured events.
//
// Events are typed structs serialized as JSONL lines. The Logger writes
// them asynchronously via a buffered channel and a background drain
// goroutine. An optional RingBuffer keeps the most recent events in memory
// for the debug overlay; `modctl events` reads the file back.
package otel

import (
	"encoding/json"
	"time"
)

// Level defines event severity for filtering.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// rank orders levels for minimum-level filters.
func (l Level) rank() int {
	switch l {
	case LevelDebug:
		return 0
	case LevelInfo, "":
		return 1
	case LevelWarn:
		return 2
	case LevelError:
		return 3
	}
	return 1
}

// EventKind identifies the category of an event.
// Dot-delimited: "<subsystem>.<action>".
type EventKind string

const (
	// List fetches
	KindFetchStart    EventKind = "fetch.start"
	KindFetchComplete EventKind = "fetch.complete"
	KindFetchError    EventKind = "fetch.error"
	KindFetchStale    EventKind = "fetch.stale"

	// Status badge counts
	KindCountsComplete EventKind = "counts.complete"
	KindCountsError    EventKind = "counts.error"

	// Mutations
	KindActionStart    EventKind = "action.start"
	KindActionComplete EventKind = "action.complete"
	KindActionError    EventKind = "action.error"

	// Detail view
	KindDetailComplete EventKind = "detail.complete"
	KindDetailError    EventKind = "detail.error"

	// Local persistence
	KindJournalError EventKind = "journal.error"

	// UI
	KindKeyPress EventKind = "ui.key"

	// System
	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
	KindError    EventKind = "sys.error"

	// Message tracing, only with MODERATOR_TRACE set
	KindMsgReceived EventKind = "trace.msg_received"
)

// Event is the universal record. Every field except Kind and Time is
// optional. Serialized as a single JSONL line.
type Event struct {
	Time      time.Time      `json:"t"`
	Level     Level          `json:"level,omitempty"`
	Kind      EventKind      `json:"kind"`
	Comp      string         `json:"comp,omitempty"`       // component: "ui", "api", "main"
	SessionID string         `json:"session_id,omitempty"` // random hex, same for the whole run
	Resource  string         `json:"resource,omitempty"`
	Seq       uint64         `json:"seq,omitempty"` // fetch ticket, correlates start/complete/stale
	Op        string         `json:"op,omitempty"`  // action verb
	Dur       time.Duration  `json:"-"`
	DurMs     float64        `json:"dur_ms,omitempty"` // computed from Dur at marshal time
	Count     int            `json:"count,omitempty"`
	Err       string         `json:"err,omitempty"`
	Msg       string         `json:"msg,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// MarshalJSON converts Dur to DurMs.
func (e Event) MarshalJSON() ([]byte, error) {
	type Alias Event
	a := struct {
		Alias
	}{Alias: Alias(e)}
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}

package otel

// The drain goroutine is the only reader of l.ch and the only writer to l.w.
// Logger.mu guards the l.buf pointer alone; the ring buffer has its own lock
// and drain never holds both.

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

// writerChanSize is the capacity of the async write channel.
const writerChanSize = 4096

// TraceEnv, when set, turns on per-message tracing for new loggers.
const TraceEnv = "MODERATOR_TRACE"

// logEntry carries the serialized line for disk and the Event itself for
// the ring buffer, so Dur survives without a JSON round trip.
type logEntry struct {
	data []byte
	ev   Event
}

// Logger serializes events as JSONL via an async background writer.
// Safe for concurrent use; Emit never blocks.
type Logger struct {
	mu        sync.Mutex
	buf       *RingBuffer
	sessionID string
	ch        chan logEntry
	w         io.Writer
	closer    io.Closer // owned file, nil for caller-owned writers
	dropped   atomic.Uint64
	closed    atomic.Bool
	tracing   atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

// NewLogger creates a Logger writing JSONL to w. Call Close to flush.
func NewLogger(w io.Writer) *Logger {
	var sid [8]byte
	_, _ = rand.Read(sid[:])

	l := &Logger{
		sessionID: fmt.Sprintf("%x", sid[:]),
		ch:        make(chan logEntry, writerChanSize),
		w:         w,
		done:      make(chan struct{}),
	}
	l.tracing.Store(os.Getenv(TraceEnv) != "")
	go l.drain()
	return l
}

// OpenFile appends events to path, creating parent directories. Close
// also closes the file.
func OpenFile(path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create event log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	l := NewLogger(f)
	l.closer = f
	return l, nil
}

// NewNullLogger creates a Logger that discards output.
func NewNullLogger() *Logger {
	return NewLogger(io.Discard)
}

func (l *Logger) drain() {
	defer close(l.done)
	for entry := range l.ch {
		if _, err := l.w.Write(entry.data); err != nil {
			l.dropped.Add(1)
		}

		l.mu.Lock()
		rb := l.buf
		l.mu.Unlock()

		if rb != nil {
			rb.Push(entry.ev)
		}
	}
}

// Emit queues an event. Time (if zero) and SessionID are filled in. When
// the channel is full or the logger closed the event is dropped and
// counted. A Close racing the send is recovered and counted too.
func (l *Logger) Emit(e Event) {
	defer func() {
		if recover() != nil {
			l.dropped.Add(1)
		}
	}()

	if l.closed.Load() {
		l.dropped.Add(1)
		return
	}

	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	e.SessionID = l.sessionID

	data, err := json.Marshal(e)
	if err != nil {
		l.dropped.Add(1)
		return
	}
	data = append(data, '\n')

	select {
	case l.ch <- logEntry{data: data, ev: e}:
	default:
		l.dropped.Add(1)
	}
}

// Info emits an info-level event.
func (l *Logger) Info(kind EventKind, comp string, msg string) {
	l.Emit(Event{Level: LevelInfo, Kind: kind, Comp: comp, Msg: msg})
}

// Warn emits a warn-level event.
func (l *Logger) Warn(kind EventKind, comp string, msg string) {
	l.Emit(Event{Level: LevelWarn, Kind: kind, Comp: comp, Msg: msg})
}

// Error emits an error-level event. A nil err is logged as empty.
func (l *Logger) Error(kind EventKind, comp string, err error) {
	errStr := ""
	if err != nil {
		errStr = err.Error()
	}
	l.Emit(Event{Level: LevelError, Kind: kind, Comp: comp, Err: errStr})
}

// Fetch records the outcome of one list fetch: complete, error, or stale
// when a newer ticket superseded it.
func (l *Logger) Fetch(resource string, seq uint64, count int, dur time.Duration, stale bool, err error) {
	e := Event{Level: LevelInfo, Kind: KindFetchComplete, Comp: "ui", Resource: resource, Seq: seq, Count: count, Dur: dur}
	switch {
	case stale:
		e.Level = LevelDebug
		e.Kind = KindFetchStale
	case err != nil:
		e.Level = LevelError
		e.Kind = KindFetchError
		e.Err = err.Error()
	}
	l.Emit(e)
}

// Action records the outcome of one mutation.
func (l *Logger) Action(resource, op string, count int, dur time.Duration, err error) {
	e := Event{Level: LevelInfo, Kind: KindActionComplete, Comp: "ui", Resource: resource, Op: op, Count: count, Dur: dur}
	if err != nil {
		e.Level = LevelError
		e.Kind = KindActionError
		e.Err = err.Error()
	}
	l.Emit(e)
}

// SetRingBuffer attaches a ring buffer for live inspection.
func (l *Logger) SetRingBuffer(buf *RingBuffer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf = buf
}

// Tracing reports whether the UI should emit one trace.msg_received event
// per message it handles.
func (l *Logger) Tracing() bool { return l.tracing.Load() }

// SetTracing overrides TraceEnv.
func (l *Logger) SetTracing(on bool) { l.tracing.Store(on) }

// SessionID returns the run identifier stamped on every event.
func (l *Logger) SessionID() string {
	return l.sessionID
}

// Dropped returns the number of events dropped since creation.
func (l *Logger) Dropped() uint64 {
	return l.dropped.Load()
}

// Close flushes pending events and stops the drain goroutine. Idempotent;
// concurrent Emit calls are dropped, not panicked.
func (l *Logger) Close() {
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		close(l.ch)
		<-l.done

		if l.closer != nil {
			_ = l.closer.Close()
		}
		if d := l.dropped.Load(); d > 0 {
			fmt.Fprintf(os.Stderr, "moderator: %d events dropped during session %s\n", d, l.sessionID)
		}
	})
}

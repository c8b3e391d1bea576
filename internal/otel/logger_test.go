package otel

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestEmitWritesJSONL(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)

	before := time.Now()
	l.Emit(Event{Kind: KindFetchStart, Level: LevelInfo, Comp: "ui", Resource: "posts", Seq: 7})
	l.Emit(Event{Kind: KindShutdown})
	l.Close()

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	first := lines[0]
	if first["kind"] != "fetch.start" || first["level"] != "info" || first["comp"] != "ui" {
		t.Errorf("unexpected line %v", first)
	}
	if first["resource"] != "posts" || first["seq"] != float64(7) {
		t.Errorf("resource/seq not serialized: %v", first)
	}
	sid, _ := first["session_id"].(string)
	if len(sid) != 16 || sid != lines[1]["session_id"] || sid != l.SessionID() {
		t.Errorf("session id %q not stable", sid)
	}

	ts, err := time.Parse(time.RFC3339Nano, first["t"].(string))
	if err != nil || ts.Before(before.Add(-time.Second)) {
		t.Errorf("time not set: %v %v", first["t"], err)
	}
}

func TestDurToMs(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)
	l.Emit(Event{Kind: KindFetchComplete, Dur: 1500 * time.Millisecond})
	l.Close()

	if got := decodeLines(t, &buf)[0]["dur_ms"]; got != float64(1500) {
		t.Errorf("dur_ms = %v, want 1500", got)
	}
}

func TestOmitempty(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)
	l.Emit(Event{Kind: KindStartup})
	l.Close()

	line := strings.TrimSpace(buf.String())
	for _, field := range []string{"dur_ms", "count", "resource", "seq", "op", "err", "msg", "extra"} {
		if strings.Contains(line, `"`+field+`"`) {
			t.Errorf("field %q should be omitted: %s", field, line)
		}
	}
}

func TestConcurrentEmit(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Emit(Event{Kind: KindKeyPress, Comp: "ui"})
		}()
	}
	wg.Wait()
	l.Close()

	if n := len(decodeLines(t, &buf)); n != 100 {
		t.Errorf("expected 100 lines, got %d", n)
	}
}

func TestCloseIsIdempotentAndDropsLateEvents(t *testing.T) {
	l := NewNullLogger()
	l.Close()
	l.Close()
	l.Emit(Event{Kind: KindStartup})
	if l.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", l.Dropped())
	}
}

func TestDropCounter(t *testing.T) {
	bw := &blockingWriter{started: make(chan struct{}), block: make(chan struct{})}
	l := NewLogger(bw)

	l.Emit(Event{Kind: KindFetchStart})
	<-bw.started

	for i := 0; i < writerChanSize+10; i++ {
		l.Emit(Event{Kind: KindFetchStart})
	}
	if l.Dropped() == 0 {
		t.Error("expected drops when the channel is full")
	}

	close(bw.block)
	l.Close()
}

type blockingWriter struct {
	started chan struct{}
	block   chan struct{}
	once    sync.Once
}

func (w *blockingWriter) Write(p []byte) (int, error) {
	w.once.Do(func() {
		close(w.started)
		<-w.block
	})
	return len(p), nil
}

func TestDomainHelpers(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)

	l.Info(KindStartup, "main", "starting")
	l.Fetch("posts", 1, 20, time.Millisecond, false, nil)
	l.Fetch("posts", 2, 0, time.Millisecond, false, errors.New("timeout"))
	l.Fetch("posts", 3, 20, time.Millisecond, true, nil)
	l.Action("products", "approve", 2, time.Millisecond, nil)
	l.Action("products", "reject", 1, time.Millisecond, errors.New("422"))
	l.Close()

	want := []struct{ level, kind string }{
		{"info", "sys.startup"},
		{"info", "fetch.complete"},
		{"error", "fetch.error"},
		{"debug", "fetch.stale"},
		{"info", "action.complete"},
		{"error", "action.error"},
	}
	lines := decodeLines(t, &buf)
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i, w := range want {
		if lines[i]["level"] != w.level || lines[i]["kind"] != w.kind {
			t.Errorf("line %d: %v/%v, want %s/%s", i, lines[i]["level"], lines[i]["kind"], w.level, w.kind)
		}
	}
	if lines[5]["op"] != "reject" || lines[5]["err"] != "422" {
		t.Errorf("action error fields missing: %v", lines[5])
	}
}

func TestOpenFileAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "events.jsonl")
	l, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	l.Fetch("posts", 1, 20, 250*time.Millisecond, false, nil)
	l.Action("posts", "delete", 1, 0, errors.New("forbidden"))
	l.Info(KindStartup, "main", "")
	l.Close()

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	events, skipped, err := Read(f, Filter{Resource: "posts"})
	if err != nil || skipped != 0 {
		t.Fatalf("Read: %v (skipped %d)", err, skipped)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 posts events, got %d", len(events))
	}
	if events[0].Dur != 250*time.Millisecond {
		t.Errorf("Dur = %v, want 250ms", events[0].Dur)
	}
}

func TestReadSkipsGarbage(t *testing.T) {
	in := strings.NewReader("{\"kind\":\"fetch.error\",\"level\":\"error\",\"t\":\"2025-01-01T00:00:00Z\"}\nnot json\n\n{\"kind\":\"ui.key\",\"t\":\"2025-01-01T00:00:00Z\"}\n")
	events, skipped, err := Read(in, Filter{MinLevel: LevelWarn})
	if err != nil {
		t.Fatal(err)
	}
	if skipped != 1 || len(events) != 1 || events[0].Kind != KindFetchError {
		t.Errorf("events=%v skipped=%d", events, skipped)
	}
}

func TestFilterMatch(t *testing.T) {
	e := Event{Kind: KindActionError, Level: LevelError, Resource: "payouts", Time: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)}
	tests := []struct {
		f    Filter
		want bool
	}{
		{Filter{}, true},
		{Filter{Kind: "action.error"}, true},
		{Filter{Kind: "action."}, true},
		{Filter{Kind: "action"}, false},
		{Filter{Resource: "posts"}, false},
		{Filter{MinLevel: LevelWarn}, true},
		{Filter{Since: e.Time.Add(time.Hour)}, false},
	}
	for i, tt := range tests {
		if got := tt.f.Match(e); got != tt.want {
			t.Errorf("case %d: Match = %v, want %v", i, got, tt.want)
		}
	}
}

func TestTracingFollowsEnv(t *testing.T) {
	t.Setenv(TraceEnv, "1")
	l := NewNullLogger()
	defer l.Close()
	if !l.Tracing() {
		t.Fatalf("Tracing() = false with %s set", TraceEnv)
	}
	l.SetTracing(false)
	if l.Tracing() {
		t.Error("SetTracing(false) did not stick")
	}

	t.Setenv(TraceEnv, "")
	quiet := NewNullLogger()
	defer quiet.Close()
	if quiet.Tracing() {
		t.Errorf("Tracing() = true with %s empty", TraceEnv)
	}
}

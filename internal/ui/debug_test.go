package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/abelbrown/moderator/internal/otel"
)

func TestDebugOverlayNilRing(t *testing.T) {
	result := debugOverlay(nil, 80, 24)
	if result != "" {
		t.Errorf("debugOverlay(nil) should return empty string, got %q", result)
	}
}

func TestDebugOverlayRendersStats(t *testing.T) {
	ring := otel.NewRingBuffer(64)
	ring.Push(otel.Event{Kind: otel.KindFetchComplete, Time: time.Now()})
	ring.Push(otel.Event{Kind: otel.KindFetchComplete, Time: time.Now()})
	ring.Push(otel.Event{Kind: otel.KindFetchError, Time: time.Now()})
	ring.Push(otel.Event{Kind: otel.KindFetchStale, Time: time.Now()})
	ring.Push(otel.Event{Kind: otel.KindActionStart, Time: time.Now()})
	ring.Push(otel.Event{Kind: otel.KindActionComplete, Time: time.Now()})

	result := debugOverlay(ring, 80, 40)

	if !strings.Contains(result, "Request Stats") {
		t.Error("overlay should contain 'Request Stats' header")
	}
	if !strings.Contains(result, "2 complete, 1 errors, 1 stale") {
		t.Errorf("overlay should show fetch stats, got:\n%s", result)
	}
	if !strings.Contains(result, "1 started, 1 complete, 0 errors") {
		t.Errorf("overlay should show action stats, got:\n%s", result)
	}
	if !strings.Contains(result, "6 / 64 events") {
		t.Errorf("overlay should show buffer stats, got:\n%s", result)
	}
}

func TestDebugOverlayRecentEvents(t *testing.T) {
	ring := otel.NewRingBuffer(64)
	ring.Push(otel.Event{Kind: otel.KindFetchStart, Time: time.Now(), Resource: "payouts", Seq: 7})
	ring.Push(otel.Event{Kind: otel.KindActionError, Time: time.Now(), Op: "status", Err: "timeout"})
	ring.Push(otel.Event{Kind: otel.KindStartup, Time: time.Now(), Msg: "hello world"})

	result := debugOverlay(ring, 80, 40)

	if !strings.Contains(result, "Recent Events") {
		t.Error("overlay should contain 'Recent Events' header")
	}
	if !strings.Contains(result, "payouts  #7") {
		t.Errorf("overlay should show resource and sequence, got:\n%s", result)
	}
	if !strings.Contains(result, "status  ERR:timeout") {
		t.Errorf("overlay should show op and error, got:\n%s", result)
	}
	if !strings.Contains(result, "hello world") {
		t.Errorf("overlay should show event message, got:\n%s", result)
	}
}

func TestDebugOverlayTruncatesToHeight(t *testing.T) {
	ring := otel.NewRingBuffer(64)
	for range 30 {
		ring.Push(otel.Event{Kind: otel.KindFetchComplete, Time: time.Now()})
	}

	result := debugOverlay(ring, 80, 12)

	// 12 - chrome leaves 8 content lines, plus border and padding.
	if lines := strings.Count(result, "\n") + 1; lines > 12 {
		t.Errorf("overlay is %d lines, want at most 12", lines)
	}
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{-time.Second, "0ms"},
		{250 * time.Millisecond, "250ms"},
		{1500 * time.Millisecond, "1.5s"},
		{3 * time.Minute, "3m"},
	}
	for _, tt := range tests {
		if got := formatAge(tt.d); got != tt.want {
			t.Errorf("formatAge(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestDebugOverlayShowsEviction(t *testing.T) {
	ring := otel.NewRingBuffer(4)
	for range 6 {
		ring.Push(otel.Event{Kind: otel.KindKeyPress, Time: time.Now()})
	}

	result := debugOverlay(ring, 80, 40)

	if !strings.Contains(result, "4 / 4 events (2 evicted)") {
		t.Errorf("overlay should show evicted events, got:\n%s", result)
	}
}

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/moderator/internal/otel"
)

// debugPanelChrome is the lines DebugPanel adds around its content: a
// border and one line of padding on each side.
const debugPanelChrome = 4

// overlayRecent is how many events the overlay lists.
const overlayRecent = 20

// statRow is one line of the stats section.
type statRow struct {
	label string
	kinds []otel.EventKind
	names []string
}

var debugRows = []statRow{
	{"Fetches", []otel.EventKind{otel.KindFetchComplete, otel.KindFetchError, otel.KindFetchStale}, []string{"complete", "errors", "stale"}},
	{"Counts", []otel.EventKind{otel.KindCountsComplete, otel.KindCountsError}, []string{"complete", "errors"}},
	{"Actions", []otel.EventKind{otel.KindActionStart, otel.KindActionComplete, otel.KindActionError}, []string{"started", "complete", "errors"}},
	{"Details", []otel.EventKind{otel.KindDetailComplete, otel.KindDetailError}, []string{"complete", "errors"}},
}

// debugOverlay renders request stats and the newest events. Empty when
// ring is nil.
func debugOverlay(ring *otel.RingBuffer, width, height int) string {
	if ring == nil {
		return ""
	}

	stats := ring.Stats()
	lines := []string{DebugHeaderStyle.Render("Request Stats")}
	for _, row := range debugRows {
		parts := make([]string, len(row.kinds))
		for i, k := range row.kinds {
			parts[i] = fmt.Sprintf("%d %s", stats[k], row.names[i])
		}
		lines = append(lines, fmt.Sprintf("  %-10s  %s", row.label+":", strings.Join(parts, ", ")))
	}
	buffer := fmt.Sprintf("  %-10s  %d / %d events", "Buffer:", ring.Len(), ring.Cap())
	if n := ring.Evicted(); n > 0 {
		buffer += fmt.Sprintf(" (%d evicted)", n)
	}
	lines = append(lines, buffer, "", DebugHeaderStyle.Render("Recent Events"))
	for _, e := range ring.Last(overlayRecent) {
		lines = append(lines, eventLine(e))
	}

	// Keep the newest stats visible; drop the tail of the event list.
	if maxLines := max(height-debugPanelChrome, 1); len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	panelWidth := max(min(76, width-4), 20)
	return DebugPanel.Width(panelWidth).Render(strings.Join(lines, "\n"))
}

func eventLine(e otel.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %6s  %-16s", formatAge(time.Since(e.Time)), e.Kind)
	if e.Resource != "" {
		b.WriteString("  " + e.Resource)
	}
	if e.Seq != 0 {
		fmt.Fprintf(&b, "  #%d", e.Seq)
	}
	if e.Op != "" {
		b.WriteString("  " + e.Op)
	}
	if e.Msg != "" {
		b.WriteString("  " + truncateRunes(e.Msg, 40))
	}
	if e.Err != "" {
		b.WriteString("  ERR:" + truncateRunes(e.Err, 30))
	}
	return b.String()
}

// formatAge renders a duration compactly. Clock skew clamps to "0ms".
func formatAge(d time.Duration) string {
	switch {
	case d < 0:
		return "0ms"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%.0fm", d.Minutes())
}

func debugStatusBar(width int) string {
	keys := StatusBarKey.Render("`") + StatusBarText.Render(":close")
	return StatusBar.Width(width).Render("  [DEBUG]  " + keys)
}

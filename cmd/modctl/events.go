package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abelbrown/moderator/internal/otel"
)

func runEvents() {
	fs := flag.NewFlagSet("events", flag.ExitOnError)
	tail := fs.Int("tail", 50, "Number of recent lines to show")
	follow := fs.Bool("f", false, "Follow mode (like tail -f)")
	kind := fs.String("kind", "", "Event kind, or a subsystem prefix (e.g. 'fetch')")
	level := fs.String("level", "", "Minimum level: debug, info, warn, error")
	resource := fs.String("resource", "", "Only events for this resource")
	since := fs.Duration("since", 0, "Only events newer than this (e.g. 1h)")
	rawJSON := fs.Bool("json", false, "Output raw JSON lines")
	fs.Parse(os.Args[1:])

	cfg := loadConfig()
	logPath := cfg.Path("moderator.events.jsonl")

	f, err := os.Open(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		fmt.Fprintf(os.Stderr, "  Event log not found at %s\n", logPath)
		fmt.Fprintf(os.Stderr, "  Run the moderator console first to generate events.\n")
		os.Exit(1)
	}
	defer f.Close()

	filter := otel.Filter{
		Kind:     kindFilter(*kind),
		Resource: *resource,
		MinLevel: otel.Level(*level),
	}
	if *since > 0 {
		filter.Since = time.Now().Add(-*since)
	}

	events, skipped, err := otel.Read(f, filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *tail > 0 && len(events) > *tail {
		events = events[len(events)-*tail:]
	}
	for _, ev := range events {
		fmt.Println(formatEvent(ev, *rawJSON))
	}
	if skipped > 0 && !*rawJSON {
		fmt.Fprintf(os.Stderr, "(%d unreadable lines skipped)\n", skipped)
	}
	if !*follow {
		return
	}

	// Read left the offset at the end; poll for appended lines.
	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				time.Sleep(100 * time.Millisecond)
				continue
			}
			return
		}
		line = trimLine(line)
		if len(line) == 0 {
			continue
		}
		var ev otel.Event
		if json.Unmarshal(line, &ev) != nil {
			continue
		}
		if ev.DurMs > 0 {
			ev.Dur = time.Duration(ev.DurMs * float64(time.Millisecond))
		}
		if filter.Match(ev) {
			fmt.Println(formatEvent(ev, *rawJSON))
		}
	}
}

// kindFilter treats a bare subsystem ("fetch") as a prefix.
func kindFilter(kind string) string {
	if kind == "" || strings.Contains(kind, ".") {
		return kind
	}
	return kind + "."
}

func formatEvent(ev otel.Event, raw bool) string {
	if raw {
		b, _ := json.Marshal(ev)
		return string(b)
	}
	lvl := strings.ToUpper(string(ev.Level))
	if lvl == "" {
		lvl = "?"
	}
	parts := []string{fmt.Sprintf("%s %-5s [%-4s] %-18s", ev.Time.Format("15:04:05.000"), lvl, ev.Comp, ev.Kind)}

	if ev.Resource != "" {
		parts = append(parts, ev.Resource)
	}
	if ev.Seq > 0 {
		parts = append(parts, fmt.Sprintf("#%d", ev.Seq))
	}
	if ev.Op != "" {
		parts = append(parts, "op="+ev.Op)
	}
	if ev.Msg != "" {
		parts = append(parts, "- "+ev.Msg)
	}
	if ev.DurMs > 0 {
		parts = append(parts, fmt.Sprintf("(%.*fms)", durPrecision(ev.DurMs), ev.DurMs))
	}
	if ev.Count > 0 {
		parts = append(parts, fmt.Sprintf("n=%d", ev.Count))
	}
	if ev.Err != "" {
		parts = append(parts, "err="+ev.Err)
	}
	return strings.Join(parts, " ")
}

func trimLine(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}

func durPrecision(ms float64) int {
	if ms >= 100 {
		return 0
	}
	if ms >= 1 {
		return 1
	}
	return 2
}

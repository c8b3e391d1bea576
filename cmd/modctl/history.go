package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/abelbrown/moderator/internal/journal"
)

func runHistory() {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	resource := fs.String("resource", "", "Only actions on this resource")
	failed := fs.Bool("failed", false, "Only failed actions")
	since := fs.Duration("since", 0, "Only actions newer than this (e.g. 24h)")
	n := fs.Int("n", 20, "Number of entries")
	fs.Parse(os.Args[1:])

	if *resource != "" {
		lookupResource(*resource)
	}

	cfg := loadConfig()
	j := openJournal(cfg)
	defer j.Close()

	f := journal.Filter{Resource: *resource, FailedOnly: *failed, Limit: *n}
	if *since > 0 {
		f.Since = time.Now().Add(-*since)
	}
	entries, err := j.Recent(context.Background(), f)
	if err != nil {
		fatal(err)
	}
	if len(entries) == 0 {
		fmt.Println("No actions recorded.")
		return
	}

	t := newTable("When", "Resource", "Action", "Records", "Result")
	for _, e := range entries {
		result := "ok"
		if !e.OK {
			result = "failed: " + e.Message
		} else if e.Status != "" {
			result = "-> " + e.Status
		}
		t.Row(
			e.At.Local().Format("Jan 02 15:04"),
			e.Resource,
			e.Kind,
			truncate(strings.Join(e.IDs, ","), 32),
			truncate(result, 48),
		)
	}
	fmt.Println(t.Render())
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/abelbrown/moderator/internal/api"
	"github.com/abelbrown/moderator/internal/catalog"
)

func runCounts() {
	fs := flag.NewFlagSet("counts", flag.ExitOnError)
	only := fs.String("resource", "", "Only this resource")
	fs.Parse(os.Args[1:])

	cfg := loadConfig()
	client := newClient(cfg)

	resources := catalog.All()
	if *only != "" {
		resources = []catalog.Resource{lookupResource(*only)}
	}

	failed := false
	t := newTable("Resource", "Total", "By status")
	for _, o := range client.Overviews(context.Background(), resources) {
		if o.Err != nil {
			failed = true
			t.Row(o.Resource.Title, "-", "unavailable: "+api.Message(o.Err))
			continue
		}
		var parts []string
		for _, s := range o.Resource.Statuses {
			parts = append(parts, fmt.Sprintf("%s %d", s.Label, o.Counts[s.Value]))
		}
		t.Row(o.Resource.Title, strconv.Itoa(o.Counts.Total()), strings.Join(parts, " · "))
	}
	fmt.Println(t.Render())
	if failed {
		os.Exit(1)
	}
}

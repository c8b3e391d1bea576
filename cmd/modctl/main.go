// Command modctl is the maintenance CLI for the moderation console.
//
// Usage:
//
//	modctl                      Show help
//	modctl list <resource>      One page of a resource, as the console fetches it
//	modctl counts               Per-status counts for every resource
//	modctl export               Payouts to CSV
//	modctl history              Recent actions from the journal
//	modctl events               JSONL event log viewer
package main

import (
	"fmt"
	"os"
)

const usage = `modctl - moderation console maintenance CLI

Usage:
  modctl <command> [flags]

Commands:
  list        Fetch one page of a resource (business, products, posts, comments,
              reports, users, payouts)
  counts      Per-status counts for every resource, fetched in parallel
  export      Write payouts to CSV
  history     Recent actions from the journal
  events      JSONL event log viewer
  config      Print the effective configuration and every setting

Environment:
  MODERATOR_CONFIG     YAML config file (default ~/.moderator/config.yaml)
  MODERATOR_API_URL    Backend base URL
  MODERATOR_API_TOKEN  Bearer token

Run 'modctl <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	cmd := os.Args[1]
	// Strip the program name + subcommand so flag sets see only their flags
	os.Args = os.Args[1:]

	switch cmd {
	case "list":
		runList()
	case "counts":
		runCounts()
	case "export":
		runExport()
	case "history":
		runHistory()
	case "events":
		runEvents()
	case "config":
		runConfig()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "modctl: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/pflag"
	"github.com/stevehodgkiss/interaction/pkg/config"
	"github.com/stevehodgkiss/interaction/pkg/journal"
)

// runJournalCmd implements `interaction journal`.
func runJournalCmd(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitRuntime
	}

	fs := pflag.NewFlagSet("journal", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		dsn        string
		driver     string
		commandID  string
		key        string
		limit      int
		jsonOutput bool
	)
	fs.StringVar(&dsn, "dsn", cfg.JournalDSN, "journal database (default $JOURNAL_DSN)")
	fs.StringVar(&driver, "driver", cfg.JournalDriver, "journal driver: sqlite or postgres")
	fs.StringVar(&commandID, "command-id", "", "only entries of this command instance")
	fs.StringVar(&key, "key", "", "only entries of this command key")
	fs.IntVarP(&limit, "limit", "n", 20, "maximum number of entries (0 for all)")
	fs.BoolVar(&jsonOutput, "json", false, "print entries as JSON lines")
	if err := fs.Parse(args); err != nil {
		return exitRuntime
	}
	if dsn == "" {
		_, _ = fmt.Fprintln(stderr, "Error: --dsn or JOURNAL_DSN is required")
		return exitRuntime
	}

	ctx := context.Background()
	store, err := openJournal(ctx, driver, dsn)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitRuntime
	}
	defer func() { _ = store.Close() }()

	var entries []journal.Entry
	switch {
	case commandID != "":
		entries, err = store.ByCommand(ctx, commandID)
	case key != "":
		entries, err = store.ByKey(ctx, key, limit)
	default:
		entries, err = store.List(ctx, limit)
	}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitRuntime
	}

	enc := json.NewEncoder(stdout)
	for _, e := range entries {
		if jsonOutput {
			if err := enc.Encode(e); err != nil {
				_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
				return exitRuntime
			}
			continue
		}
		_, _ = fmt.Fprintf(stdout, "%s  %-28s %s  %s\n",
			e.OccurredAt.Format(time.RFC3339), e.Name, e.CommandID, e.Payload)
	}
	return exitOK
}

package main

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"
	"github.com/stevehodgkiss/interaction/pkg/config"
	"github.com/stevehodgkiss/interaction/pkg/events"
)

// runEventsCmd implements `interaction events`.
func runEventsCmd(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("events", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	definitions := fs.StringP("definitions", "d", "interaction.yaml", "path to the command definitions file")
	if err := fs.Parse(args); err != nil {
		return exitRuntime
	}

	defs, err := config.LoadDefinitions(*definitions)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitRuntime
	}
	for _, def := range defs.Commands {
		_, _ = fmt.Fprintf(stdout, "%-24s %s %s\n", def.Key,
			events.Name(def.Key, events.Success),
			events.Name(def.Key, events.Failure))
	}
	return exitOK
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/stevehodgkiss/interaction/pkg/config"
	"github.com/stevehodgkiss/interaction/pkg/events"
	"github.com/stevehodgkiss/interaction/pkg/validation"
)

// commandFlags are shared by run and validate.
type commandFlags struct {
	definitions string
	command     string
	args        string
	jsonOutput  bool
}

func (f *commandFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.definitions, "definitions", "d", "interaction.yaml", "path to the command definitions file")
	fs.StringVarP(&f.command, "command", "c", "", "command key or name (required)")
	fs.StringVarP(&f.args, "args", "a", "{}", "JSON object of arguments, or @path to read it from a file")
	fs.BoolVar(&f.jsonOutput, "json", false, "print the result as JSON")
}

func (f *commandFlags) load() (config.CommandDefinition, map[string]any, error) {
	if f.command == "" {
		return config.CommandDefinition{}, nil, errors.New("--command is required")
	}
	defs, err := config.LoadDefinitions(f.definitions)
	if err != nil {
		return config.CommandDefinition{}, nil, err
	}
	def, err := defs.Lookup(f.command)
	if err != nil {
		return config.CommandDefinition{}, nil, err
	}
	doc, err := parseArgs(f.args)
	if err != nil {
		return config.CommandDefinition{}, nil, err
	}
	return def, doc, nil
}

func parseArgs(raw string) (map[string]any, error) {
	data := []byte(raw)
	if path, ok := strings.CutPrefix(raw, "@"); ok {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read args: %w", err)
		}
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("args must be a JSON object: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

type runResult struct {
	Command   string             `json:"command"`
	CommandID string             `json:"command_id"`
	Outcome   string             `json:"outcome"`
	Event     string             `json:"event"`
	Payload   any                `json:"payload"`
	Errors    *validation.Errors `json:"errors,omitempty"`
}

// runRunCmd implements `interaction run`.
//
// Exit codes:
//
//	0 = the command succeeded
//	1 = the command failed
//	2 = usage, configuration or runtime error
func runRunCmd(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		flags  commandFlags
		failAs string
	)
	flags.register(fs)
	fs.StringVar(&failAs, "fail", "", "fail with this reason after validation")
	if err := fs.Parse(args); err != nil {
		return exitRuntime
	}

	def, doc, err := flags.load()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitRuntime
	}

	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitRuntime
	}

	ctx := context.Background()
	rt, err := newRuntime(ctx, cfg, stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitRuntime
	}
	defer func() { _ = rt.Close(ctx) }()

	typ, err := rt.documentType(def)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitRuntime
	}

	cmd, err := typ.Run(ctx, documentArgs{Doc: doc, FailAs: failAs})
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %s: %v\n", typ.Key(), err)
		return exitRuntime
	}

	res := runResult{
		Command:   typ.Key(),
		CommandID: cmd.ID(),
		Outcome:   cmd.Outcome().State().String(),
		Payload:   cmd.Payload(),
	}
	if cmd.Failed() {
		res.Event = typ.EventName(events.Failure)
	} else {
		res.Event = typ.EventName(events.Success)
	}
	if !cmd.Errors().Empty() {
		res.Errors = cmd.Errors()
	}

	if flags.jsonOutput {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitRuntime
		}
	} else {
		_, _ = fmt.Fprintf(stdout, "%s %s (%s)\n", res.Command, res.Outcome, res.Event)
		for _, msg := range cmd.Errors().FullMessages() {
			_, _ = fmt.Fprintf(stdout, "  - %s\n", msg)
		}
		if s, ok := res.Payload.(string); ok {
			_, _ = fmt.Fprintf(stdout, "  reason: %s\n", s)
		}
	}

	if cmd.Failed() {
		return exitFailed
	}
	return exitOK
}

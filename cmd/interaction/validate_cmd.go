package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

// runValidateCmd implements `interaction validate`. It checks arguments
// against the command's schema without performing it or publishing events.
func runValidateCmd(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("validate", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	var flags commandFlags
	flags.register(fs)
	if err := fs.Parse(args); err != nil {
		return exitRuntime
	}

	def, doc, err := flags.load()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitRuntime
	}
	schema, err := def.CompileSchema()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitRuntime
	}
	if schema == nil {
		_, _ = fmt.Fprintf(stdout, "%s has no schema\n", def.Key)
		return exitOK
	}

	res := schema.Validate(doc)
	if flags.jsonOutput {
		out, err := json.MarshalIndent(map[string]any{
			"command": def.Key,
			"valid":   res.Valid(),
			"errors":  res.Errors(),
		}, "", "  ")
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitRuntime
		}
		_, _ = fmt.Fprintln(stdout, string(out))
	} else if res.Valid() {
		_, _ = fmt.Fprintf(stdout, "%s: valid\n", def.Key)
	} else {
		_, _ = fmt.Fprintf(stdout, "%s: invalid\n", def.Key)
		for _, msg := range res.Errors().FullMessages() {
			_, _ = fmt.Fprintf(stdout, "  - %s\n", msg)
		}
	}

	if !res.Valid() {
		return exitFailed
	}
	return exitOK
}

package main

import (
	"context"

	"github.com/stevehodgkiss/interaction/pkg/command"
	"github.com/stevehodgkiss/interaction/pkg/config"
	"github.com/stevehodgkiss/interaction/pkg/validation"
)

// documentArgs are the arguments of a command defined in YAML: a JSON
// document and an optional forced failure reason.
type documentArgs struct {
	Doc    map[string]any
	FailAs string
}

// documentCommand validates its document against the definition's schema
// and succeeds with the document as payload.
type documentCommand struct {
	command.Base
	args   documentArgs
	schema *validation.Schema
}

func (c *documentCommand) Perform(ctx context.Context) error {
	if c.schema != nil {
		if err := c.ValidateOrFail(ctx, c.schema.Validate(c.args.Doc)); err != nil {
			return err
		}
	}
	if c.args.FailAs != "" {
		return c.FailNow(ctx, c.args.FailAs)
	}
	c.Succeed(ctx, c.args.Doc)
	return nil
}

// documentType builds the command type for def. The schema is only consulted
// when the definition keeps validations on.
func documentType(def config.CommandDefinition, opts ...command.Option) (*command.Type[documentArgs, *documentCommand], error) {
	var schema *validation.Schema
	if def.Capabilities().Validations {
		var err error
		if schema, err = def.CompileSchema(); err != nil {
			return nil, err
		}
	}
	opts = append(opts, command.WithCapabilities(def.Capabilities()))
	return command.NewType(def.TypeDefinition(), func(a documentArgs) (*documentCommand, error) {
		return &documentCommand{args: a, schema: schema}, nil
	}, opts...)
}

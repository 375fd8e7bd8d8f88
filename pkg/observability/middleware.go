package observability

import (
	"context"

	"github.com/stevehodgkiss/interaction/pkg/command"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Command span attributes.
var (
	AttrCommandKey     = attribute.Key("interaction.command.key")
	AttrCommandID      = attribute.Key("interaction.command.id")
	AttrCommandOutcome = attribute.Key("interaction.command.outcome")
)

// Middleware wraps every perform in a "command <key>" span and records the
// RED metrics. A business failure is recorded as an outcome attribute and a
// failure count; only a runtime error marks the span as errored.
func Middleware(p *Provider) command.Middleware {
	return func(next command.Step) command.Step {
		return func(ctx context.Context, c command.Command) error {
			keyAttr := AttrCommandKey.String(c.Key())
			ctx, done := p.TrackOperation(ctx, "command "+c.Key(), keyAttr)
			trace.SpanFromContext(ctx).SetAttributes(AttrCommandID.String(c.ID()))

			err := next(ctx, c)

			state := c.Outcome().State()
			trace.SpanFromContext(ctx).SetAttributes(AttrCommandOutcome.String(state.String()))
			if err == nil && c.Outcome().Failed() {
				p.RecordFailure(ctx, keyAttr)
			}
			done(err)
			return err
		}
	}
}

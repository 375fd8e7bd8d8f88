package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/stevehodgkiss/interaction/pkg/command"
)

// Logging logs one line per perform. Business failures log at warn, runtime
// errors at error.
func Logging(logger *slog.Logger) command.Middleware {
	if logger == nil {
		logger = slog.Default().With("component", "command")
	}
	return func(next command.Step) command.Step {
		return func(ctx context.Context, c command.Command) error {
			start := time.Now()
			err := next(ctx, c)

			attrs := []any{
				"command_key", c.Key(),
				"command_id", c.ID(),
				"outcome", c.Outcome().State().String(),
				"duration_ms", time.Since(start).Milliseconds(),
			}
			switch {
			case err != nil:
				logger.ErrorContext(ctx, "command errored", append(attrs, "error", err)...)
			case c.Outcome().Failed():
				logger.WarnContext(ctx, "command failed", attrs...)
			default:
				logger.InfoContext(ctx, "command succeeded", attrs...)
			}
			return err
		}
	}
}

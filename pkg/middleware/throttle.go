// Package middleware holds command middleware for throttling and logging.
package middleware

import (
	"context"
	"fmt"
	"sync"

	"github.com/stevehodgkiss/interaction/pkg/command"
	"golang.org/x/time/rate"
)

// Throttle waits for a token from limiter before every perform. If ctx ends
// first the command is not performed and the context error is returned.
func Throttle(limiter *rate.Limiter) command.Middleware {
	return func(next command.Step) command.Step {
		return func(ctx context.Context, c command.Command) error {
			if err := limiter.Wait(ctx); err != nil {
				return fmt.Errorf("throttle %s: %w", c.Key(), err)
			}
			return next(ctx, c)
		}
	}
}

// KeyedLimiter hands out one limiter per command key, so several types
// sharing the middleware do not starve each other.
type KeyedLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

// NewKeyedLimiter allows rps performs per second per key with the given
// burst.
func NewKeyedLimiter(rps float64, burst int) *KeyedLimiter {
	if burst < 1 {
		burst = 1
	}
	return &KeyedLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

// Limiter returns the limiter for key, creating it on first use.
func (k *KeyedLimiter) Limiter(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()
	l, ok := k.limiters[key]
	if !ok {
		l = rate.NewLimiter(k.rps, k.burst)
		k.limiters[key] = l
	}
	return l
}

// Middleware throttles each command key separately.
func (k *KeyedLimiter) Middleware() command.Middleware {
	return func(next command.Step) command.Step {
		return func(ctx context.Context, c command.Command) error {
			if err := k.Limiter(c.Key()).Wait(ctx); err != nil {
				return fmt.Errorf("throttle %s: %w", c.Key(), err)
			}
			return next(ctx, c)
		}
	}
}

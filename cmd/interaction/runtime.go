package main

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/stevehodgkiss/interaction/pkg/command"
	"github.com/stevehodgkiss/interaction/pkg/config"
	"github.com/stevehodgkiss/interaction/pkg/events"
	"github.com/stevehodgkiss/interaction/pkg/journal"
	"github.com/stevehodgkiss/interaction/pkg/middleware"
	"github.com/stevehodgkiss/interaction/pkg/observability"
	"github.com/stevehodgkiss/interaction/pkg/relay"
	"golang.org/x/time/rate"
)

// runtime wires the optional subsystems selected by the environment around
// command types: a shared registry, middleware and global listeners.
type runtime struct {
	logger    *slog.Logger
	registry  events.Registry
	options   []command.Option
	listeners []events.Listener
	closers   []func(context.Context) error
}

func newRuntime(ctx context.Context, cfg *config.Config, logOut io.Writer) (*runtime, error) {
	logger := cfg.Logger(logOut)
	rt := &runtime{
		logger:   logger,
		registry: events.NewLockedRegistry(),
	}

	provider, err := observability.New(ctx, &observability.Config{
		ServiceName:    "interaction",
		ServiceVersion: version,
		Environment:    "cli",
		OTLPEndpoint:   cfg.OTelEndpoint,
		SampleRate:     1.0,
		BatchTimeout:   observability.DefaultConfig().BatchTimeout,
		Enabled:        cfg.OTelEnabled,
		Insecure:       cfg.OTelInsecure,
	})
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, provider.Shutdown)

	mws := []command.Middleware{
		middleware.Logging(logger.With("component", "command")),
		observability.Middleware(provider),
	}
	if cfg.ThrottleRPS > 0 {
		mws = append(mws, middleware.Throttle(rate.NewLimiter(rate.Limit(cfg.ThrottleRPS), 1)))
	}

	if cfg.RedisAddr != "" {
		client := relay.NewClient(cfg.RedisAddr, "", 0)
		r := relay.New(client,
			relay.WithPrefix(cfg.RedisChannelPrefix),
			relay.WithLogger(logger.With("component", "relay")))
		rt.listeners = append(rt.listeners, r.Listener())
		rt.closers = append(rt.closers, func(context.Context) error { return client.Close() })
	}

	if cfg.JournalDSN != "" {
		store, err := openJournal(ctx, cfg.JournalDriver, cfg.JournalDSN)
		if err != nil {
			_ = rt.Close(ctx)
			return nil, err
		}
		rec := journal.NewRecorder(store, logger.With("component", "journal"))
		rt.listeners = append(rt.listeners, rec.Listener())
		rt.closers = append(rt.closers, func(context.Context) error { return store.Close() })
	}

	rt.options = []command.Option{
		command.WithRegistry(rt.registry),
		command.WithLogger(logger.With("component", "command")),
		command.WithMiddleware(mws...),
	}
	return rt, nil
}

func openJournal(ctx context.Context, driver, dsn string) (*journal.SQLStore, error) {
	dialect, err := journal.ParseDialect(driver)
	if err != nil {
		return nil, err
	}
	return journal.Open(ctx, dialect, dsn)
}

// documentType builds the type for def and subscribes the runtime's global
// listeners to it.
func (rt *runtime) documentType(def config.CommandDefinition) (*command.Type[documentArgs, *documentCommand], error) {
	typ, err := documentType(def, rt.options...)
	if err != nil {
		return nil, err
	}
	for _, l := range rt.listeners {
		typ.Subscribe(l)
	}
	return typ, nil
}

// Close releases subsystems in reverse order of creation.
func (rt *runtime) Close(ctx context.Context) error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

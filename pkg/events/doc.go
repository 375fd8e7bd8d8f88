// Package events implements the outcome notification channel for commands.
//
// Every terminal outcome produces one Event named "<command-key>_success" or
// "<command-key>_failure". Events are delivered on two independent scopes:
//
//   - Global: handlers held in a Registry, keyed by command key and Kind.
//     They live until the registry is cleared and are shared by every
//     instance of a command type.
//   - Local: handlers held in a Local, owned by one command instance. Each
//     handler fires at most once and is discarded afterwards.
//
// Delivery is synchronous and ordered by subscription. Handler panics are not
// recovered.
//
// # Concurrency
//
// The Registry returned by NewRegistry is not synchronised. Callers that
// subscribe or publish from several goroutines against the same registry must
// serialise those calls themselves, or use NewLockedRegistry.
package events

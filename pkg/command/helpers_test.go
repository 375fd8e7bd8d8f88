package command_test

import (
	"context"
	"testing"

	"github.com/stevehodgkiss/interaction/pkg/command"
	"github.com/stevehodgkiss/interaction/pkg/events"
	"github.com/stretchr/testify/require"
)

type body func(ctx context.Context, c *scripted) error

// scripted is a command whose Perform is supplied per instance.
type scripted struct {
	command.Base
	body body
}

func (s *scripted) Perform(ctx context.Context) error {
	if s.body == nil {
		return nil
	}
	return s.body(ctx, s)
}

func newScripted(b body) (*scripted, error) {
	return &scripted{body: b}, nil
}

func scriptedType(t *testing.T, opts ...command.Option) *command.Type[body, *scripted] {
	t.Helper()
	typ, err := command.NewType(command.Definition{Key: "scripted"}, newScripted, opts...)
	require.NoError(t, err)
	return typ
}

type captured struct {
	Name    string
	Payload any
	ID      string
}

func capture(into *[]captured) events.Listener {
	h := func(_ context.Context, e events.Event) {
		*into = append(*into, captured{Name: e.Name, Payload: e.Payload, ID: e.CommandID})
	}
	return events.Listener{OnSuccess: h, OnFailure: h}
}

func names(cs []captured) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Name)
	}
	return out
}

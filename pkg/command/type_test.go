package command_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stevehodgkiss/interaction/pkg/command"
	"github.com/stevehodgkiss/interaction/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type RegisterAccount struct {
	command.Base
}

func (*RegisterAccount) Perform(context.Context) error { return nil }

func TestNewType_DerivesNameAndKey(t *testing.T) {
	typ, err := command.NewType(command.Definition{}, func(struct{}) (*RegisterAccount, error) {
		return &RegisterAccount{}, nil
	})
	require.NoError(t, err)

	assert.Equal(t, "RegisterAccount", typ.Name())
	assert.Equal(t, "register_account", typ.Key())
	assert.Equal(t, "register_account_success", typ.EventName(events.Success))
	assert.Equal(t, "register_account_failure", typ.EventName(events.Failure))
	assert.True(t, typ.Capabilities().Validations)
}

func TestNewType_ExplicitKeyWins(t *testing.T) {
	typ, err := command.NewType(command.Definition{Name: "Sign Up", Key: "signup"}, newScripted)
	require.NoError(t, err)
	assert.Equal(t, "Sign Up", typ.Name())
	assert.Equal(t, "signup", typ.Key())
}

func TestNewType_Errors(t *testing.T) {
	_, err := command.NewType[body, *scripted](command.Definition{Key: "k"}, nil)
	assert.ErrorIs(t, err, command.ErrConstructorRequired)

	_, err = command.NewType(command.Definition{Key: "Bad Key"}, newScripted)
	assert.ErrorIs(t, err, command.ErrKeyInvalid)

	assert.Panics(t, func() {
		command.MustType(command.Definition{Key: "-"}, newScripted)
	})
}

func TestNew_ConstructorError(t *testing.T) {
	boom := errors.New("bad args")
	typ, err := command.NewType(command.Definition{Key: "k"}, func(int) (*scripted, error) { return nil, boom })
	require.NoError(t, err)

	_, err = typ.Run(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
}

func TestNew_NilCommand(t *testing.T) {
	typ, err := command.NewType(command.Definition{Key: "k"}, func(int) (*scripted, error) { return nil, nil })
	require.NoError(t, err)

	_, err = typ.New(1)
	assert.ErrorIs(t, err, command.ErrNilCommand)
}

func TestNew_AlreadyBound(t *testing.T) {
	shared := &scripted{}
	typ, err := command.NewType(command.Definition{Key: "k"}, func(int) (*scripted, error) { return shared, nil })
	require.NoError(t, err)

	_, err = typ.New(1)
	require.NoError(t, err)
	_, err = typ.New(2)
	assert.ErrorIs(t, err, command.ErrAlreadyBound)
}

func TestNew_OutcomeStartsUnset(t *testing.T) {
	c, err := scriptedType(t).New(nil)
	require.NoError(t, err)

	assert.False(t, c.Outcome().IsSet())
	assert.False(t, c.Performed())
	assert.NotEmpty(t, c.ID())
	assert.Equal(t, "scripted", c.Key())
}

func TestSubscribe_RegistrationOrder(t *testing.T) {
	typ := scriptedType(t)
	var calls []string
	for _, label := range []string{"first", "second", "third"} {
		typ.Subscribe(events.Listener{OnFailure: func(context.Context, events.Event) {
			calls = append(calls, label)
		}})
	}

	_, err := typ.Run(context.Background(), func(ctx context.Context, s *scripted) error {
		return s.FailNow(ctx, nil)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, calls)
}

func TestSubscribe_SharedRegistryIsolatesKeys(t *testing.T) {
	reg := events.NewRegistry()
	a, err := command.NewType(command.Definition{Key: "a"}, newScripted, command.WithRegistry(reg))
	require.NoError(t, err)
	b, err := command.NewType(command.Definition{Key: "b"}, newScripted, command.WithRegistry(reg))
	require.NoError(t, err)

	var seen []captured
	a.Subscribe(capture(&seen))

	_, err = b.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, seen)

	_, err = a.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a_success"}, names(seen))
	assert.Same(t, reg, a.Registry())
}

func TestUnsubscribe(t *testing.T) {
	typ := scriptedType(t)
	var seen []captured
	typ.Subscribe(capture(&seen))
	typ.Unsubscribe()

	_, err := typ.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, seen)
}

func TestRun_ConcurrentInstancesWithLockedRegistry(t *testing.T) {
	typ := scriptedType(t, command.WithRegistry(events.NewLockedRegistry()))
	done := make(chan bool)
	typ.Subscribe(events.Listener{OnSuccess: func(context.Context, events.Event) {}})

	for i := 0; i < 8; i++ {
		go func() {
			c, err := typ.Run(context.Background(), nil)
			done <- err == nil && c.Succeeded()
		}()
	}
	for i := 0; i < 8; i++ {
		assert.True(t, <-done)
	}
}

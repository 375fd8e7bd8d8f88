package wire_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stevehodgkiss/interaction/pkg/events"
	"github.com/stevehodgkiss/interaction/pkg/validation"
	"github.com/stevehodgkiss/interaction/pkg/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedEvent(payload any) events.Event {
	e := events.New("sign_up", events.Failure, "cmd-1", payload)
	e.ID = "evt-1"
	e.OccurredAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return e
}

func TestEncode_IsCanonical(t *testing.T) {
	out, err := wire.Encode(fixedEvent(map[string]any{"z": 1, "a": "<b>"}))
	require.NoError(t, err)

	assert.Equal(t,
		`{"command_id":"cmd-1","id":"evt-1","key":"sign_up","kind":"failure","name":"sign_up_failure",`+
			`"occurred_at":"2024-05-01T12:00:00Z","payload":{"a":"<b>","z":1},"version":"interaction.event/v1"}`,
		string(out))
}

func TestEncode_ValidationErrorsPayload(t *testing.T) {
	errs := validation.NewErrors()
	errs.Add("name", "can't be blank")

	out, err := wire.Encode(fixedEvent(errs))
	require.NoError(t, err)
	assert.Contains(t, string(out), `"payload":{"name":["can't be blank"]}`)

	env, err := wire.Decode(out)
	require.NoError(t, err)
	decoded := validation.NewErrors()
	require.NoError(t, env.DecodePayload(decoded))
	assert.Equal(t, []string{"can't be blank"}, decoded.Get("name"))
}

func TestEncode_UnmarshalablePayload(t *testing.T) {
	_, err := wire.Encode(fixedEvent(func() {}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sign_up_failure")
}

func TestDigest_Stable(t *testing.T) {
	a, err := wire.FromEvent(fixedEvent(map[string]any{"b": 2, "a": 1}))
	require.NoError(t, err)
	b, err := wire.FromEvent(fixedEvent(map[string]any{"a": 1, "b": 2}))
	require.NoError(t, err)

	da, err := a.Digest()
	require.NoError(t, err)
	db, err := b.Digest()
	require.NoError(t, err)

	assert.Equal(t, da, db)
	assert.True(t, strings.HasPrefix(da, "sha256:"))
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"garbage", `{`},
		{"version", `{"version":"v0","kind":"success"}`},
		{"kind", `{"version":"interaction.event/v1","kind":"maybe"}`},
		{"unknown field", `{"version":"interaction.event/v1","kind":"success","extra":true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := wire.Decode([]byte(tt.in))
			assert.Error(t, err)
		})
	}

	_, err := wire.Decode([]byte(`{"version":"v0","kind":"success"}`))
	assert.ErrorIs(t, err, wire.ErrVersion)
}

// Package wire encodes outcome events for delivery outside the process.
//
// Envelopes are serialised as RFC 8785 canonical JSON so that the same event
// always produces the same bytes and the same digest, whichever process
// encoded it.
package wire

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gowebpki/jcs"
	"github.com/stevehodgkiss/interaction/pkg/events"
)

// Version is the envelope format version.
const Version = "interaction.event/v1"

// ErrVersion is returned by Decode for envelopes of another format.
var ErrVersion = errors.New("wire: unsupported envelope version")

// Envelope is the transport form of an events.Event.
type Envelope struct {
	Version    string          `json:"version"`
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Key        string          `json:"key"`
	Kind       events.Kind     `json:"kind"`
	CommandID  string          `json:"command_id"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// FromEvent converts e into an envelope. The payload must be JSON
// marshalable; a nil payload becomes JSON null.
func FromEvent(e events.Event) (Envelope, error) {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("wire: payload of %s: %w", e.Name, err)
	}
	return Envelope{
		Version:    Version,
		ID:         e.ID,
		Name:       e.Name,
		Key:        e.Key,
		Kind:       e.Kind,
		CommandID:  e.CommandID,
		Payload:    payload,
		OccurredAt: e.OccurredAt.UTC(),
	}, nil
}

// Encode returns the canonical JSON form of e.
func Encode(e events.Event) ([]byte, error) {
	env, err := FromEvent(e)
	if err != nil {
		return nil, err
	}
	return env.Canonical()
}

// Canonical returns the canonical JSON form of the envelope.
func (env Envelope) Canonical() ([]byte, error) {
	raw, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("wire: marshal envelope: %w", err)
	}
	out, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("wire: canonicalize envelope: %w", err)
	}
	return out, nil
}

// Digest returns "sha256:<hex>" over the canonical form.
func (env Envelope) Digest() (string, error) {
	b, err := env.Canonical()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return "sha256:" + hex.EncodeToString(sum[:]), nil
}

// Decode parses an envelope and checks its version and kind. Unknown fields
// are rejected.
func Decode(data []byte) (Envelope, error) {
	var env Envelope
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&env); err != nil {
		return Envelope{}, fmt.Errorf("wire: decode envelope: %w", err)
	}
	if env.Version != Version {
		return Envelope{}, fmt.Errorf("%w: %q", ErrVersion, env.Version)
	}
	if !env.Kind.Valid() {
		return Envelope{}, fmt.Errorf("wire: unknown kind %q", env.Kind)
	}
	return env, nil
}

// DecodePayload unmarshals the envelope payload into v.
func (env Envelope) DecodePayload(v any) error {
	if len(env.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(env.Payload, v)
}

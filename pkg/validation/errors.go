// Package validation carries the structured problems a validator reports and
// the collaborator interface commands use to check their input.
package validation

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Base is the field used for problems that concern the whole document.
const Base = "base"

// Errors maps field names to ordered messages. Fields keep the order in which
// they were first added. The zero value is ready to use; a nil *Errors reads
// as empty.
type Errors struct {
	fields   []string
	messages map[string][]string
}

// NewErrors returns an empty collection.
func NewErrors() *Errors {
	return &Errors{}
}

// Add appends message to field.
func (e *Errors) Add(field, message string) {
	if field == "" {
		field = Base
	}
	if e.messages == nil {
		e.messages = make(map[string][]string)
	}
	if _, ok := e.messages[field]; !ok {
		e.fields = append(e.fields, field)
	}
	e.messages[field] = append(e.messages[field], message)
}

// Merge appends every message of other, field by field, keeping both the
// per-field message order and the field order of other.
func (e *Errors) Merge(other *Errors) {
	if other == nil {
		return
	}
	if other == e {
		other = e.Clone()
	}
	other.Each(e.Add)
}

// Get returns a copy of the messages for field.
func (e *Errors) Get(field string) []string {
	if e == nil {
		return nil
	}
	msgs := e.messages[field]
	if len(msgs) == 0 {
		return nil
	}
	return append([]string(nil), msgs...)
}

// Fields returns the field names in insertion order.
func (e *Errors) Fields() []string {
	if e == nil {
		return nil
	}
	return append([]string(nil), e.fields...)
}

// Len returns the total number of messages.
func (e *Errors) Len() int {
	if e == nil {
		return 0
	}
	n := 0
	for _, msgs := range e.messages {
		n += len(msgs)
	}
	return n
}

// Empty reports whether there are no messages.
func (e *Errors) Empty() bool {
	return e.Len() == 0
}

// Each calls fn for every message in field order, then message order.
func (e *Errors) Each(fn func(field, message string)) {
	if e == nil {
		return
	}
	for _, field := range e.fields {
		for _, msg := range e.messages[field] {
			fn(field, msg)
		}
	}
}

// Clone returns a deep copy.
func (e *Errors) Clone() *Errors {
	out := NewErrors()
	e.Each(out.Add)
	return out
}

// Map returns the messages as a plain map.
func (e *Errors) Map() map[string][]string {
	out := make(map[string][]string, len(e.Fields()))
	e.Each(func(field, message string) {
		out[field] = append(out[field], message)
	})
	return out
}

// FullMessages renders each message prefixed with its field, except for
// Base messages which are rendered alone.
func (e *Errors) FullMessages() []string {
	var out []string
	e.Each(func(field, message string) {
		if field == Base {
			out = append(out, message)
			return
		}
		out = append(out, field+" "+message)
	})
	return out
}

func (e *Errors) String() string {
	return strings.Join(e.FullMessages(), "; ")
}

// MarshalJSON encodes the collection as an object whose keys follow field
// insertion order.
func (e *Errors) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range e.Fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(field)
		if err != nil {
			return nil, err
		}
		msgs, err := json.Marshal(e.messages[field])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(msgs)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object of field -> messages. Field order follows
// the document.
func (e *Errors) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}
	*e = Errors{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		field, _ := tok.(string)
		var msgs []string
		if err := dec.Decode(&msgs); err != nil {
			return err
		}
		for _, msg := range msgs {
			e.Add(field, msg)
		}
	}
	_, err := dec.Token()
	return err
}

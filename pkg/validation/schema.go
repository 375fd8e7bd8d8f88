package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var missingProperty = regexp.MustCompile(`'([^']*)'`)

// Schema is a compiled JSON Schema used to validate command arguments.
type Schema struct {
	name   string
	schema *jsonschema.Schema
}

// CompileSchema compiles a Draft 2020-12 schema document registered under
// name.
func CompileSchema(name, document string) (*Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	url := fmt.Sprintf("https://interaction.schemas.local/%s.schema.json", name)
	if err := c.AddResource(url, strings.NewReader(document)); err != nil {
		return nil, fmt.Errorf("schema %q load failed: %w", name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("schema %q compile failed: %w", name, err)
	}
	return &Schema{name: name, schema: compiled}, nil
}

// MustCompileSchema is like CompileSchema but panics on error.
func MustCompileSchema(name, document string) *Schema {
	s, err := CompileSchema(name, document)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the name the schema was compiled under.
func (s *Schema) Name() string {
	return s.name
}

// Validate checks doc against the schema. doc may be any value that encodes
// to JSON; it is round-tripped so struct tags apply and numbers keep their
// precision.
func (s *Schema) Validate(doc any) Result {
	errs := NewErrors()
	value, err := normalize(doc)
	if err != nil {
		errs.Add(Base, fmt.Sprintf("is not a valid document: %v", err))
		return Result{errs: errs}
	}

	err = s.schema.Validate(value)
	if err == nil {
		return Result{errs: errs}
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		errs.Add(Base, err.Error())
		return Result{errs: errs}
	}
	collect(errs, ve)
	if errs.Empty() {
		errs.Add(Base, ve.Message)
	}
	return Result{errs: errs}
}

func normalize(doc any) (any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var value any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}

// collect walks the error tree and records its leaves against the field the
// instance location points at.
func collect(errs *Errors, ve *jsonschema.ValidationError) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collect(errs, cause)
		}
		return
	}
	parent := fieldName(ve.InstanceLocation)
	if strings.HasSuffix(ve.KeywordLocation, "/required") {
		matches := missingProperty.FindAllStringSubmatch(ve.Message, -1)
		for _, m := range matches {
			errs.Add(joinField(parent, m[1]), "is required")
		}
		if len(matches) > 0 {
			return
		}
	}
	errs.Add(parent, ve.Message)
}

// fieldName turns a JSON pointer into a dotted field path. The root maps to
// Base.
func fieldName(pointer string) string {
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return Base
	}
	parts := strings.Split(pointer, "/")
	for i, p := range parts {
		p = strings.ReplaceAll(p, "~1", "/")
		parts[i] = strings.ReplaceAll(p, "~0", "~")
	}
	return strings.Join(parts, ".")
}

func joinField(parent, name string) string {
	if parent == Base {
		return name
	}
	return parent + "." + name
}

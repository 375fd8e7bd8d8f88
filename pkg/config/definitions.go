package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/stevehodgkiss/interaction/pkg/command"
	"github.com/stevehodgkiss/interaction/pkg/events"
	"github.com/stevehodgkiss/interaction/pkg/validation"
	"gopkg.in/yaml.v3"
)

// CommandDefinition describes a command type in a definitions file.
type CommandDefinition struct {
	Name        string         `yaml:"name" json:"name"`
	Key         string         `yaml:"key,omitempty" json:"key,omitempty"`
	Validations *bool          `yaml:"validations,omitempty" json:"validations,omitempty"`
	Schema      map[string]any `yaml:"schema,omitempty" json:"schema,omitempty"`
}

// Definitions is the top level of a definitions file.
type Definitions struct {
	Commands []CommandDefinition `yaml:"commands" json:"commands"`
}

// LoadDefinitions reads a definitions file. Keys default to the normalised
// name and are validated; duplicate keys are rejected.
func LoadDefinitions(path string) (*Definitions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load definitions %q: %w", path, err)
	}
	return ParseDefinitions(data)
}

// ParseDefinitions parses definitions YAML.
func ParseDefinitions(data []byte) (*Definitions, error) {
	var defs Definitions
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parse definitions: %w", err)
	}

	if err := defs.normalize(); err != nil {
		return nil, err
	}
	return &defs, nil
}

func (defs *Definitions) normalize() error {
	seen := make(map[string]bool, len(defs.Commands))
	for i := range defs.Commands {
		d := &defs.Commands[i]
		if d.Name == "" && d.Key == "" {
			return fmt.Errorf("command %d: name or key is required", i)
		}
		if d.Key == "" {
			d.Key = events.NormalizeKey(d.Name)
		}
		if err := events.ValidateKey(d.Key); err != nil {
			return fmt.Errorf("command %q: %w", d.Name, err)
		}
		if seen[d.Key] {
			return fmt.Errorf("command %q: duplicate key %q", d.Name, d.Key)
		}
		seen[d.Key] = true
	}
	return nil
}

// LoadAllDefinitions merges every *.yaml and then every *.yml file in dir.
// Keys must be unique across files.
func LoadAllDefinitions(dir string) (*Definitions, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}

	all := &Definitions{}
	for _, path := range paths {
		defs, err := LoadDefinitions(path)
		if err != nil {
			return nil, err
		}
		all.Commands = append(all.Commands, defs.Commands...)
	}
	if err := all.normalize(); err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	return all, nil
}

// ErrUnknownCommand is returned by Lookup for keys not defined.
var ErrUnknownCommand = errors.New("unknown command")

// Lookup finds a command by key or by name.
func (defs *Definitions) Lookup(nameOrKey string) (CommandDefinition, error) {
	for _, c := range defs.Commands {
		if c.Key == nameOrKey || strings.EqualFold(c.Name, nameOrKey) {
			return c, nil
		}
	}
	return CommandDefinition{}, fmt.Errorf("%w: %q", ErrUnknownCommand, nameOrKey)
}

// TypeDefinition returns the command.Definition for d.
func (d CommandDefinition) TypeDefinition() command.Definition {
	return command.Definition{Name: d.Name, Key: d.Key}
}

// Capabilities returns the capabilities for d. Validations default to on.
func (d CommandDefinition) Capabilities() command.Capabilities {
	caps := command.DefaultCapabilities()
	if d.Validations != nil {
		caps.Validations = *d.Validations
	}
	return caps
}

// CompileSchema compiles the inline schema. It returns nil when d has none.
func (d CommandDefinition) CompileSchema() (*validation.Schema, error) {
	if len(d.Schema) == 0 {
		return nil, nil
	}
	doc, err := json.Marshal(d.Schema)
	if err != nil {
		return nil, fmt.Errorf("command %q: schema: %w", d.Key, err)
	}
	return validation.CompileSchema(d.Key, string(doc))
}

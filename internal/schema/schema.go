// Package schema generates the JSON Schema document describing shipyard.yaml.
//
// The document is assembled from the command registry rather than reflected
// from a struct: every environment section allows one entry per leaf command,
// and each command entry enumerates the parameters its config section accepts.
package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"github.com/harborline/shipyard/internal/config"
	"github.com/harborline/shipyard/internal/registry"
)

const (
	// DefaultPath is where the generated schema is committed.
	DefaultPath = "schema/shipyard.json"

	// EnvironmentPattern matches any non-empty environment name.
	EnvironmentPattern = "^.+$"

	schemaDraft   = "http://json-schema.org/draft-04/schema"
	documentTitle = "Shipyard configuration schema"
)

// DetailLevel controls how much of a command's surface the schema exposes.
type DetailLevel int

const (
	// DetailFull enumerates every parameter of the command.
	DetailFull DetailLevel = iota
	// DetailStub emits only the command description with an empty parameter
	// map, for commands whose documented surface is not finalized yet.
	DetailStub
)

// Policy maps top-level command names to their detail level. Absent entries
// default to DetailFull.
type Policy map[string]DetailLevel

// Generate assembles the schema document for the given command packages.
// Packages are processed in the order given; join defaults to config.ToKey.
// Two commands resolving to the same joined name are a fatal error.
func Generate(packages []*registry.Command, join KeyJoiner, policy Policy) (*jsonschema.Schema, error) {
	if join == nil {
		join = config.ToKey
	}

	var commands []Command
	for _, pkg := range packages {
		commands = append(commands, commandsFrom(pkg, join)...)
	}

	environment := &jsonschema.Schema{
		Title:      "Environment",
		Properties: jsonschema.NewProperties(),
	}
	seen := map[string]bool{}
	for _, cmd := range commands {
		name, fragment := cmd.fragment(policy)
		if seen[name] {
			return nil, fmt.Errorf("duplicate command name %q in schema", name)
		}
		seen[name] = true
		environment.Properties.Set(name, fragment)
	}

	rootProps := jsonschema.NewProperties()
	rootProps.Set("version", &jsonschema.Schema{
		Title:   "Config version",
		Type:    "number",
		Default: config.Version,
	})

	return &jsonschema.Schema{
		Version:              schemaDraft,
		Title:                documentTitle,
		Type:                 "object",
		Properties:           rootProps,
		Required:             []string{"version"},
		AdditionalProperties: jsonschema.FalseSchema,
		PatternProperties: map[string]*jsonschema.Schema{
			EnvironmentPattern: environment,
		},
	}, nil
}

// Write generates the schema and writes it to path as 2-space-indented JSON.
func Write(path string, packages []*registry.Command, join KeyJoiner, policy Policy) error {
	doc, err := Generate(packages, join, policy)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create schema directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write schema: %w", err)
	}
	return nil
}

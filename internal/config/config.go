// Package config reads and writes the environment-keyed shipyard.yaml file.
//
// The file is keyed by environment name at the top level, then by command key,
// then by a fixed "parameters" section:
//
//	version: 0.1
//	default:
//	  build:
//	    parameters:
//	      arch: arm64
//
// ToKey is the canonical key-joining convention. Schema generation uses the
// same function, so the keys it emits are exactly the keys looked up here.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultFileName = "shipyard.yaml"
	DefaultEnv      = "default"

	// KeyDelimiter joins command name segments into a config key.
	KeyDelimiter = "_"

	// Version is written into new config files and required by the schema.
	Version = 0.1
)

// ToKey converts a command path into its configuration key. Hyphens are
// normalized to underscores so CLI spellings and config keys stay aligned.
func ToKey(segments []string) string {
	normalized := make([]string, 0, len(segments))
	for _, s := range segments {
		normalized = append(normalized, strings.ReplaceAll(s, "-", "_"))
	}
	return strings.Join(normalized, KeyDelimiter)
}

// Config is an in-memory view of one shipyard.yaml document.
type Config struct {
	doc map[string]any
}

// New returns an empty config carrying only the version marker.
func New() *Config {
	return &Config{doc: map[string]any{"version": Version}}
}

// Load reads and parses a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	doc := map[string]any{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &Config{doc: doc}, nil
}

// Parameter looks up one command parameter in the given environment.
func (c *Config) Parameter(env string, cmdPath []string, key string) (any, bool) {
	section, ok := c.doc[env].(map[string]any)
	if !ok {
		return nil, false
	}
	command, ok := section[ToKey(cmdPath)].(map[string]any)
	if !ok {
		return nil, false
	}
	params, ok := command["parameters"].(map[string]any)
	if !ok {
		return nil, false
	}
	value, ok := params[key]
	return value, ok
}

// SetParameter stores one command parameter, creating sections as needed.
func (c *Config) SetParameter(env string, cmdPath []string, key string, value any) {
	section, ok := c.doc[env].(map[string]any)
	if !ok {
		section = map[string]any{}
		c.doc[env] = section
	}
	command, ok := section[ToKey(cmdPath)].(map[string]any)
	if !ok {
		command = map[string]any{}
		section[ToKey(cmdPath)] = command
	}
	params, ok := command["parameters"].(map[string]any)
	if !ok {
		params = map[string]any{}
		command["parameters"] = params
	}
	params[key] = value
}

// Save writes the config document to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c.doc)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

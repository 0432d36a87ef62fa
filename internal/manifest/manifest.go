// Package manifest loads the Shipfile, the yaml list of services a project
// builds and runs.
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const DefaultFileName = "Shipfile"

// Service is one buildable unit: a named directory with an optional explicit
// entrypoint used by local invocation.
type Service struct {
	Name       string   `yaml:"name"`
	Path       string   `yaml:"path"`
	Runtime    string   `yaml:"runtime,omitempty"`
	Entrypoint []string `yaml:"entrypoint,omitempty"`
}

type Manifest struct {
	Services []Service `yaml:"services"`
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	if len(m.Services) == 0 {
		return nil, fmt.Errorf("manifest %s declares no services", path)
	}

	seen := map[string]bool{}
	for i, svc := range m.Services {
		if svc.Name == "" {
			return nil, fmt.Errorf("service[%d] has no name", i)
		}
		if svc.Path == "" {
			return nil, fmt.Errorf("service %q has no path", svc.Name)
		}
		if seen[svc.Name] {
			return nil, fmt.Errorf("duplicate service name %q", svc.Name)
		}
		seen[svc.Name] = true
	}

	return &m, nil
}

// Service returns the named service.
func (m *Manifest) Service(name string) (*Service, bool) {
	for i := range m.Services {
		if m.Services[i].Name == name {
			return &m.Services[i], true
		}
	}
	return nil, false
}

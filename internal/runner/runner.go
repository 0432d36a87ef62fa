// Package runner executes a service entrypoint locally and records its
// output under .shipyard/logs.
package runner

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/harborline/shipyard/internal/manifest"
)

type Result struct {
	Output   string
	Duration time.Duration
}

// LogPath returns the invoke log for a service, relative to the project root.
func LogPath(root string, service string) string {
	return filepath.Join(root, ".shipyard", "logs", service+".log")
}

// Invoke runs the service entrypoint in its directory, feeding the event
// payload on stdin. Extra environment entries take KEY=VALUE form.
func Invoke(svc *manifest.Service, event []byte, extraEnv []string) (*Result, error) {
	binary, args, err := buildCommand(svc)
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(binary, args...)
	cmd.Dir = svc.Path
	cmd.Env = append(os.Environ(), extraEnv...)
	if len(event) > 0 {
		cmd.Stdin = strings.NewReader(string(event))
	}

	start := time.Now()
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("service %s failed: %w\nstderr: %s", svc.Name, err, string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("service %s failed: %w", svc.Name, err)
	}

	result := &Result{Output: string(output), Duration: time.Since(start)}
	if err := appendLog(LogPath(".", svc.Name), result.Output); err != nil {
		return nil, err
	}
	return result, nil
}

// buildCommand resolves the command line for a service: an explicit
// entrypoint wins, otherwise the runtime picks a conventional launcher.
func buildCommand(svc *manifest.Service) (string, []string, error) {
	if len(svc.Entrypoint) > 0 {
		return svc.Entrypoint[0], svc.Entrypoint[1:], nil
	}

	switch svc.Runtime {
	case "go1.x":
		return "go", []string{"run", "."}, nil
	case "node20":
		return "node", []string{"."}, nil
	case "python3.12":
		return "python3", []string{"main.py"}, nil
	default:
		return "", nil, fmt.Errorf("service %q: unsupported runtime %q and no entrypoint", svc.Name, svc.Runtime)
	}
}

// ParseEnvFile reads KEY=VALUE lines, skipping blanks and # comments.
func ParseEnvFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read env file: %w", err)
	}

	var env []string
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.Contains(line, "=") {
			return nil, fmt.Errorf("env file %s: line %d is not KEY=VALUE", path, i+1)
		}
		env = append(env, line)
	}
	return env, nil
}

func appendLog(path string, output string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	header := fmt.Sprintf("=== %s ===\n", time.Now().UTC().Format(time.RFC3339))
	if _, err := f.WriteString(header + output + "\n"); err != nil {
		return fmt.Errorf("append log: %w", err)
	}
	return nil
}

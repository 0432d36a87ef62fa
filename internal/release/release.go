// Package release stores deployment records as JSON files under
// .shipyard/releases/<id>/release.json.
package release

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusDeployed Status = "deployed"
	StatusFailed   Status = "failed"
)

type Record struct {
	ID         string    `json:"id"`
	Stack      string    `json:"stack"`
	Region     string    `json:"region,omitempty"`
	Artifacts  []string  `json:"artifacts"`
	Parameters []string  `json:"parameters,omitempty"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	LastError  string    `json:"last_error,omitempty"`
}

// Root returns the release store directory for a project root.
func Root(projectRoot string) string {
	return filepath.Join(projectRoot, ".shipyard", "releases")
}

// New creates a pending record with a fresh ID.
func New(stack string, region string, artifacts []string, parameters []string) (*Record, error) {
	if stack == "" {
		return nil, fmt.Errorf("stack name is required")
	}
	if len(artifacts) == 0 {
		return nil, fmt.Errorf("no artifacts to release")
	}

	now := time.Now().UTC()
	id, err := newID(now)
	if err != nil {
		return nil, err
	}

	return &Record{
		ID:         id,
		Stack:      stack,
		Region:     region,
		Artifacts:  artifacts,
		Parameters: parameters,
		Status:     StatusPending,
		CreatedAt:  now,
	}, nil
}

// Save writes the record into the store, creating its directory.
func Save(root string, rec *Record) error {
	dir := filepath.Join(root, rec.ID)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create release directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode release record: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "release.json"), data, 0o600); err != nil {
		return fmt.Errorf("write release record: %w", err)
	}
	return nil
}

// LoadByID reads one record from the store.
func LoadByID(root string, id string) (*Record, error) {
	data, err := os.ReadFile(filepath.Join(root, id, "release.json"))
	if err != nil {
		return nil, fmt.Errorf("read release record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse release record %s: %w", id, err)
	}
	return &rec, nil
}

// List returns all records, newest first. A missing store is empty, not an
// error.
func List(root string) ([]*Record, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read release store: %w", err)
	}

	var records []*Record
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		rec, err := LoadByID(root, entry.Name())
		if err != nil {
			continue
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

func newID(now time.Time) (string, error) {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("generate release id: %w", err)
	}
	return fmt.Sprintf("%s-%s", now.Format("20060102-150405"), hex.EncodeToString(suffix)), nil
}

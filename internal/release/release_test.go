package release

import (
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	rec, err := New("orders", "eu-west-1", []string{"api_amd64.tar.gz"}, []string{"Stage=prod"})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if rec.ID == "" {
		t.Error("expected non-empty ID")
	}
	if rec.Status != StatusPending {
		t.Errorf("Status = %q, want %q", rec.Status, StatusPending)
	}
	if rec.Stack != "orders" || rec.Region != "eu-west-1" {
		t.Errorf("record = %+v", rec)
	}
	if time.Since(rec.CreatedAt) > time.Minute {
		t.Errorf("CreatedAt = %v", rec.CreatedAt)
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New("", "", []string{"a.tar.gz"}, nil); err == nil {
		t.Error("New() without stack succeeded")
	}
	if _, err := New("orders", "", nil, nil); err == nil {
		t.Error("New() without artifacts succeeded")
	}
}

func TestSaveLoadList(t *testing.T) {
	root := t.TempDir()

	first, err := New("orders", "", []string{"a.tar.gz"}, nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	first.CreatedAt = first.CreatedAt.Add(-time.Hour)
	second, err := New("billing", "", []string{"b.tar.gz"}, nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	second.Status = StatusDeployed

	for _, rec := range []*Record{first, second} {
		if err := Save(root, rec); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
	}

	loaded, err := LoadByID(root, second.ID)
	if err != nil {
		t.Fatalf("LoadByID() error: %v", err)
	}
	if loaded.Stack != "billing" || loaded.Status != StatusDeployed {
		t.Errorf("loaded = %+v", loaded)
	}

	records, err := List(root)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	// Newest first.
	if records[0].Stack != "billing" || records[1].Stack != "orders" {
		t.Errorf("order = %s, %s", records[0].Stack, records[1].Stack)
	}
}

func TestListMissingStore(t *testing.T) {
	records, err := List(t.TempDir() + "/absent")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if records != nil {
		t.Errorf("records = %v, want none", records)
	}
}

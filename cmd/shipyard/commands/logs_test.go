package commands

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPrintLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")

	if offset, err := printLog(path, 0, ""); err != nil || offset != 0 {
		t.Fatalf("missing log: offset=%d err=%v", offset, err)
	}

	content := []byte("=== 2026-08-23T10:00:00Z ===\nhello\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write log: %v", err)
	}

	offset, err := printLog(path, 0, "")
	if err != nil {
		t.Fatalf("printLog() error: %v", err)
	}
	if offset != int64(len(content)) {
		t.Errorf("offset = %d, want %d", offset, len(content))
	}

	// Unchanged file advances nothing.
	again, err := printLog(path, offset, "")
	if err != nil || again != offset {
		t.Errorf("offset = %d (err=%v), want %d", again, err, offset)
	}
}

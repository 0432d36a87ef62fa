package builder

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/harborline/shipyard/internal/manifest"
)

func TestPackage(t *testing.T) {
	dir := t.TempDir()
	svcDir := filepath.Join(dir, "api")
	if err := os.MkdirAll(filepath.Join(svcDir, "handlers"), 0o750); err != nil {
		t.Fatalf("create service dir: %v", err)
	}
	for name, content := range map[string]string{
		"main.go":             "package main",
		"handlers/handler.go": "package handlers",
	} {
		if err := os.WriteFile(filepath.Join(svcDir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	outDir := filepath.Join(dir, "dist")
	svc := manifest.Service{Name: "api", Path: svcDir}
	archivePath, err := Package(svc, "amd64", outDir)
	if err != nil {
		t.Fatalf("Package() error: %v", err)
	}
	if archivePath != ArtifactPath(outDir, "api", "amd64") {
		t.Errorf("archive path = %q", archivePath)
	}

	entries := readArchive(t, archivePath)
	for _, want := range []string{"main.go", "handlers/", "handlers/handler.go"} {
		if _, ok := entries[want]; !ok {
			t.Errorf("archive missing entry %q: %v", want, entries)
		}
	}
	if entries["main.go"] != "package main" {
		t.Errorf("main.go content = %q", entries["main.go"])
	}
}

func TestPackageMissingDirectory(t *testing.T) {
	svc := manifest.Service{Name: "api", Path: filepath.Join(t.TempDir(), "absent")}
	if _, err := Package(svc, "amd64", t.TempDir()); err == nil {
		t.Fatal("Package() succeeded on a missing directory")
	}
}

func TestListArtifacts(t *testing.T) {
	dir := t.TempDir()

	artifacts, err := ListArtifacts(filepath.Join(dir, "absent"))
	if err != nil || artifacts != nil {
		t.Fatalf("missing dir: artifacts=%v err=%v", artifacts, err)
	}

	for _, name := range []string{"api_amd64.tar.gz", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	artifacts, err = ListArtifacts(dir)
	if err != nil {
		t.Fatalf("ListArtifacts() error: %v", err)
	}
	if len(artifacts) != 1 || filepath.Base(artifacts[0]) != "api_amd64.tar.gz" {
		t.Errorf("artifacts = %v", artifacts)
	}
}

func readArchive(t *testing.T, path string) map[string]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("open gzip: %v", err)
	}
	tr := tar.NewReader(gz)

	entries := map[string]string{}
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read archive: %v", err)
		}
		content, err := io.ReadAll(tr)
		if err != nil {
			t.Fatalf("read entry %s: %v", hdr.Name, err)
		}
		entries[hdr.Name] = string(content)
	}
	return entries
}

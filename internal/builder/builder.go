// Package builder packages service directories into deployable archives.
package builder

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/harborline/shipyard/internal/manifest"
)

const DefaultOutputDir = ".shipyard/dist"

// ArtifactPath returns the archive location for a service and architecture.
func ArtifactPath(outDir string, name string, arch string) string {
	return filepath.Join(outDir, fmt.Sprintf("%s_%s.tar.gz", name, arch))
}

// Package archives one service directory as <outDir>/<name>_<arch>.tar.gz and
// returns the archive path.
func Package(svc manifest.Service, arch string, outDir string) (string, error) {
	info, err := os.Stat(svc.Path)
	if err != nil {
		return "", fmt.Errorf("service %q: %w", svc.Name, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("service %q: path %s is not a directory", svc.Name, svc.Path)
	}

	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	archivePath := ArtifactPath(outDir, svc.Name, arch)
	out, err := os.Create(archivePath)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	if err := addTree(tw, svc.Path); err != nil {
		return "", fmt.Errorf("archive service %q: %w", svc.Name, err)
	}

	if err := tw.Close(); err != nil {
		return "", fmt.Errorf("finalize archive: %w", err)
	}
	if err := gz.Close(); err != nil {
		return "", fmt.Errorf("finalize archive: %w", err)
	}
	return archivePath, nil
}

func addTree(tw *tar.Writer, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if info.IsDir() {
			hdr.Name += "/"
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if info.IsDir() || !info.Mode().IsRegular() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
}

// ListArtifacts returns the archive files present in outDir.
func ListArtifacts(outDir string) ([]string, error) {
	entries, err := os.ReadDir(outDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read artifact directory: %w", err)
	}

	var artifacts []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tar.gz") {
			continue
		}
		artifacts = append(artifacts, filepath.Join(outDir, entry.Name()))
	}
	return artifacts, nil
}

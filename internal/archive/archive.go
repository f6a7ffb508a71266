// Package archive extracts zip archives into directories. Project templates
// and the bundled editor package are both shipped as zip files.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Merlinas/SublimeAVR/internal/platform"
)

// ExtractFile extracts the zip archive at archivePath into destDir.
// It returns the slash-separated names of the files written.
func ExtractFile(archivePath, destDir string) ([]string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("opening zip archive: %w", err)
	}
	defer r.Close()
	return Extract(&r.Reader, destDir)
}

// ExtractBytes extracts an in-memory zip archive into destDir.
func ExtractBytes(data []byte, destDir string) ([]string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening zip archive: %w", err)
	}
	return Extract(r, destDir)
}

// Extract writes every entry of r below destDir, creating directories as
// needed. Entries that would land outside destDir are rejected.
func Extract(r *zip.Reader, destDir string) ([]string, error) {
	root, err := filepath.Abs(destDir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", destDir, err)
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", root, err)
	}

	var files []string
	for _, f := range r.File {
		target, err := entryPath(root, f.Name)
		if err != nil {
			return files, err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return files, fmt.Errorf("creating directory %s: %w", target, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return files, fmt.Errorf("creating directory for %s: %w", f.Name, err)
		}
		if err := writeEntry(f, target); err != nil {
			return files, err
		}
		files = append(files, f.Name)
	}
	return files, nil
}

func entryPath(root, name string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(name))
	if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry %q escapes destination", name)
	}
	return target, nil
}

func writeEntry(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening zip entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("extracting %s: %w", f.Name, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", target, err)
	}

	// Keep executable bits recorded in the archive, e.g. helper scripts.
	if perm := f.Mode().Perm(); perm&0111 != 0 {
		if err := platform.Chmod(target, perm); err != nil {
			return fmt.Errorf("setting mode of %s: %w", target, err)
		}
	}
	return nil
}

package scaffold

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Merlinas/SublimeAVR/internal/archive"
)

//go:embed templates/*.zip
var bundledFS embed.FS

const bundledDir = "templates"

// ErrTemplateNotFound is returned when a named template does not exist.
var ErrTemplateNotFound = errors.New("template not found")

// Template is one project template archive.
type Template struct {
	Name string // display name, e.g. "Blink LED"
	File string // archive file name, e.g. "Blink_LED.zip"
	// Dir is the directory holding the archive. Empty for bundled templates.
	Dir string
}

// Bundled reports whether the template is embedded in the binary.
func (t Template) Bundled() bool {
	return t.Dir == ""
}

// Result holds the outcome of a template extraction.
type Result struct {
	OutputDir string
	Files     []string
}

// DisplayName converts an archive file name into a template name.
func DisplayName(file string) string {
	return strings.ReplaceAll(strings.TrimSuffix(file, ".zip"), "_", " ")
}

// FileName converts a template name back into its archive file name.
func FileName(name string) string {
	return strings.ReplaceAll(name, " ", "_") + ".zip"
}

// List returns the templates in dir sorted by name. An empty dir lists the
// bundled templates.
func List(dir string) ([]Template, error) {
	var (
		entries []fs.DirEntry
		err     error
	)
	if dir == "" {
		entries, err = fs.ReadDir(bundledFS, bundledDir)
	} else {
		entries, err = os.ReadDir(dir)
	}
	if err != nil {
		return nil, fmt.Errorf("reading templates: %w", err)
	}

	var templates []Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".zip") {
			continue
		}
		templates = append(templates, Template{
			Name: DisplayName(entry.Name()),
			File: entry.Name(),
			Dir:  dir,
		})
	}
	sort.Slice(templates, func(i, j int) bool {
		return templates[i].Name < templates[j].Name
	})
	return templates, nil
}

// Find returns the template called name. The archive file name is accepted
// as well.
func Find(templates []Template, name string) (Template, error) {
	for _, t := range templates {
		if t.Name == name || t.File == name || t.File == FileName(name) {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
}

// Names returns the display names of templates.
func Names(templates []Template) []string {
	names := make([]string, len(templates))
	for i, t := range templates {
		names[i] = t.Name
	}
	return names
}

// Extract unpacks t into outputDir.
func Extract(t Template, outputDir string) (*Result, error) {
	var (
		files []string
		err   error
	)
	if t.Bundled() {
		var data []byte
		data, err = fs.ReadFile(bundledFS, bundledDir+"/"+t.File)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, t.Name)
		}
		files, err = archive.ExtractBytes(data, outputDir)
	} else {
		files, err = archive.ExtractFile(filepath.Join(t.Dir, t.File), outputDir)
	}
	if err != nil {
		return nil, fmt.Errorf("extracting template %q: %w", t.Name, err)
	}
	return &Result{OutputDir: outputDir, Files: files}, nil
}

// PrepareDir creates dir. It reports whether dir was newly created; an
// existing directory is not an error.
func PrepareDir(dir string) (bool, error) {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return false, fmt.Errorf("%s exists and is not a directory", dir)
		}
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Errorf("creating %s: %w", dir, err)
	}
	return true, nil
}

// RemoveIfEmpty deletes dir when it has no entries, so an abandoned
// scaffold leaves no empty folder behind. It reports whether dir was removed.
func RemoveIfEmpty(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading %s: %w", dir, err)
	}
	if len(entries) > 0 {
		return false, nil
	}
	if err := os.Remove(dir); err != nil {
		return false, fmt.Errorf("removing %s: %w", dir, err)
	}
	return true, nil
}

package scaffold

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		file string
		want string
	}{
		{"Blink_LED.zip", "Blink LED"},
		{"Empty_C++_project.zip", "Empty C++ project"},
		{"minimal.zip", "minimal"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			if got := DisplayName(tt.file); got != tt.want {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.file, got, tt.want)
			}
			if got := FileName(tt.want); got != tt.file {
				t.Errorf("FileName(%q) = %q, want %q", tt.want, got, tt.file)
			}
		})
	}
}

func TestListBundled(t *testing.T) {
	templates, err := List("")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}

	names := Names(templates)
	want := []string{"Blink LED", "Empty C project", "Empty C++ project"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("bundled templates = %v, want %v", names, want)
	}
	for _, tmpl := range templates {
		if !tmpl.Bundled() {
			t.Errorf("template %q should be bundled", tmpl.Name)
		}
	}
}

func TestListDirectory(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "My_Board.zip", map[string]string{"main.c": "int main(void){}"})
	writeFile(t, filepath.Join(dir, "README.txt"), "not a template")
	if err := os.Mkdir(filepath.Join(dir, "nested.zip"), 0755); err != nil {
		t.Fatal(err)
	}

	templates, err := List(dir)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(templates) != 1 {
		t.Fatalf("got %d templates, want 1: %v", len(templates), templates)
	}
	if templates[0].Name != "My Board" || templates[0].Dir != dir {
		t.Errorf("unexpected template %+v", templates[0])
	}
}

func TestListMissingDirectory(t *testing.T) {
	if _, err := List(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing templates directory")
	}
}

func TestFind(t *testing.T) {
	templates, err := List("")
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"Blink LED", "Blink_LED.zip", "Blink_LED"} {
		got, err := Find(templates, name)
		if err != nil {
			t.Errorf("Find(%q) error: %v", name, err)
			continue
		}
		if got.File != "Blink_LED.zip" {
			t.Errorf("Find(%q) = %q, want Blink_LED.zip", name, got.File)
		}
	}

	if _, err := Find(templates, "Toaster"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("Find(Toaster) error = %v, want ErrTemplateNotFound", err)
	}
}

func TestExtractBundled(t *testing.T) {
	templates, err := List("")
	if err != nil {
		t.Fatal(err)
	}
	tmpl, err := Find(templates, "Blink LED")
	if err != nil {
		t.Fatal(err)
	}

	outDir := filepath.Join(t.TempDir(), "blink")
	result, err := Extract(tmpl, outDir)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	assertFiles(t, result, []string{"Makefile", "main.c", "settings.h"})
	assertContains(t, readGenerated(t, outDir, "Makefile"), "avrdude $(AVRDUDE_FLAGS)")
	assertContains(t, readGenerated(t, outDir, "main.c"), "_delay_ms")
}

func TestExtractFromDirectory(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "Custom.zip", map[string]string{
		"Makefile":   "all:\n",
		"src/main.c": "int main(void) { return 0; }\n",
	})
	templates, err := List(dir)
	if err != nil {
		t.Fatal(err)
	}

	outDir := filepath.Join(t.TempDir(), "custom")
	result, err := Extract(templates[0], outDir)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	assertFiles(t, result, []string{"Makefile", "src/main.c"})
}

func TestExtractCorruptArchive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Broken.zip"), "definitely not a zip")
	templates, err := List(dir)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Extract(templates[0], t.TempDir()); err == nil {
		t.Fatal("expected error extracting a corrupt archive")
	}
}

func TestPrepareDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "new", "project")

	created, err := PrepareDir(dir)
	if err != nil || !created {
		t.Fatalf("PrepareDir(new) = %v, %v; want true, nil", created, err)
	}
	created, err = PrepareDir(dir)
	if err != nil || created {
		t.Fatalf("PrepareDir(existing) = %v, %v; want false, nil", created, err)
	}

	file := filepath.Join(t.TempDir(), "file")
	writeFile(t, file, "x")
	if _, err := PrepareDir(file); err == nil {
		t.Fatal("expected error when the path is a file")
	}
}

func TestRemoveIfEmpty(t *testing.T) {
	empty := filepath.Join(t.TempDir(), "empty")
	if err := os.Mkdir(empty, 0755); err != nil {
		t.Fatal(err)
	}
	removed, err := RemoveIfEmpty(empty)
	if err != nil || !removed {
		t.Fatalf("RemoveIfEmpty(empty) = %v, %v; want true, nil", removed, err)
	}
	if _, err := os.Stat(empty); !os.IsNotExist(err) {
		t.Error("empty directory should be gone")
	}

	full := t.TempDir()
	writeFile(t, filepath.Join(full, "keep.c"), "")
	removed, err = RemoveIfEmpty(full)
	if err != nil || removed {
		t.Fatalf("RemoveIfEmpty(full) = %v, %v; want false, nil", removed, err)
	}

	removed, err = RemoveIfEmpty(filepath.Join(t.TempDir(), "missing"))
	if err != nil || removed {
		t.Fatalf("RemoveIfEmpty(missing) = %v, %v; want false, nil", removed, err)
	}
}

// --- Test helpers ---

func writeTemplate(t *testing.T, dir, name string, files map[string]string) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for path, body := range files {
		fw, err := w.Create(path)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func assertFiles(t *testing.T, result *Result, expected []string) {
	t.Helper()
	got := make(map[string]bool)
	for _, f := range result.Files {
		got[f] = true
	}
	for _, f := range expected {
		if !got[f] {
			t.Errorf("missing expected file %q in result (got %v)", f, result.Files)
		}
	}
	if len(result.Files) != len(expected) {
		t.Errorf("got %d files, want %d: %v", len(result.Files), len(expected), result.Files)
	}
}

func readGenerated(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("reading %s: %v", name, err)
	}
	return string(data)
}

func assertContains(t *testing.T, content, substr string) {
	t.Helper()
	if !strings.Contains(content, substr) {
		t.Errorf("expected content to contain %q", substr)
	}
}

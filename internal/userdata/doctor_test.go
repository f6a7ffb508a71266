package userdata

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testPaths(t *testing.T) Paths {
	t.Helper()
	data := t.TempDir()
	return Paths{
		Data:              data,
		Packages:          filepath.Join(data, PackagesDir),
		InstalledPackages: filepath.Join(data, InstalledPackagesDir),
	}
}

func TestCheckSublime_Missing(t *testing.T) {
	p := testPaths(t)
	var buf bytes.Buffer

	problems := CheckSublime(&buf, p, false)
	if problems != 3 {
		t.Errorf("problems = %d, want 3\n%s", problems, buf.String())
	}
	if !strings.Contains(buf.String(), "[MISS] "+p.Packages) {
		t.Errorf("expected missing Packages line, got:\n%s", buf.String())
	}
}

func TestCheckSublime_Fix(t *testing.T) {
	p := testPaths(t)
	var buf bytes.Buffer

	if problems := CheckSublime(&buf, p, true); problems != 0 {
		t.Errorf("problems after fix = %d\n%s", problems, buf.String())
	}
	for _, dir := range []string{p.Packages, p.InstalledPackages, filepath.Join(p.Packages, UserPackage)} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("%s should have been created", dir)
		}
	}

	buf.Reset()
	if problems := CheckSublime(&buf, p, false); problems != 0 {
		t.Errorf("second run problems = %d\n%s", problems, buf.String())
	}
	if strings.Contains(buf.String(), "[MISS]") {
		t.Errorf("unexpected MISS after fix:\n%s", buf.String())
	}
}

func TestCheckSublime_FileInPlaceOfDir(t *testing.T) {
	p := testPaths(t)
	if err := os.WriteFile(p.Packages, []byte("x"), FilePermNormal); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer

	CheckSublime(&buf, p, true)
	if !strings.Contains(buf.String(), "exists but is not a directory") {
		t.Errorf("expected not-a-directory warning, got:\n%s", buf.String())
	}
}

func TestCheckBundle(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer

	if CheckBundle(&buf, dir, "SublimeClang.sublime-package") {
		t.Error("expected missing bundle")
	}
	if err := os.WriteFile(filepath.Join(dir, "SublimeClang.sublime-package"), []byte("PK"), FilePermNormal); err != nil {
		t.Fatal(err)
	}
	if !CheckBundle(&buf, dir, "SublimeClang.sublime-package") {
		t.Errorf("expected bundle present\n%s", buf.String())
	}
}

package updater

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadState_Missing(t *testing.T) {
	state, err := LoadState(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(state) != 0 {
		t.Errorf("expected empty state, got %v", state)
	}
}

func TestSaveAndLoadState(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "bundle")
	now := time.Now().UTC().Truncate(time.Second)
	original := BundleState{
		"SublimeClang.sublime-package": {Version: "v2.1.0", Repo: "owner/pkg", SHA256: "abc", FetchedAt: now},
	}

	if err := SaveState(dir, original); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}
	loaded, err := LoadState(dir)
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}

	got := loaded["SublimeClang.sublime-package"]
	if got.Version != "v2.1.0" || got.Repo != "owner/pkg" || !got.FetchedAt.Equal(now) {
		t.Errorf("loaded entry = %+v", got)
	}
}

func TestLoadState_Corrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, stateFileName), []byte("{nope"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadState(dir); err == nil {
		t.Error("expected error for corrupt state")
	}
}

func TestBundleEntryIsStale(t *testing.T) {
	if !(BundleEntry{}).IsStale(time.Hour) {
		t.Error("zero entry should be stale")
	}
	fresh := BundleEntry{FetchedAt: time.Now()}
	if fresh.IsStale(time.Hour) {
		t.Error("fresh entry should not be stale")
	}
	old := BundleEntry{FetchedAt: time.Now().Add(-48 * time.Hour)}
	if !old.IsStale(24 * time.Hour) {
		t.Error("old entry should be stale")
	}
}

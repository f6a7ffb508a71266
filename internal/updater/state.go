package updater

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const stateFileName = "bundle-state.json"

// BundleEntry records where one bundled archive came from.
type BundleEntry struct {
	Version   string    `json:"version"`
	Repo      string    `json:"repo"`
	SHA256    string    `json:"sha256"`
	FetchedAt time.Time `json:"fetched_at"`
}

// BundleState maps archive names to their origin.
type BundleState map[string]BundleEntry

// LoadState reads the bundle state from dir.
// Returns an empty state if the file does not exist (first fetch).
func LoadState(dir string) (BundleState, error) {
	path := filepath.Join(dir, stateFileName)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return BundleState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading bundle state: %w", err)
	}

	state := BundleState{}
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parsing bundle state: %w", err)
	}
	return state, nil
}

// SaveState writes the bundle state to dir.
func SaveState(dir string, state BundleState) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating bundle directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling bundle state: %w", err)
	}

	path := filepath.Join(dir, stateFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing bundle state: %w", err)
	}
	return nil
}

// IsStale returns true if entry is older than maxAge or was never fetched.
func (e BundleEntry) IsStale(maxAge time.Duration) bool {
	if e.FetchedAt.IsZero() {
		return true
	}
	return time.Since(e.FetchedAt) > maxAge
}

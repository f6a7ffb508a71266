package updater

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Merlinas/SublimeAVR/internal/ctxlog"
)

// FetchOptions selects what Fetch downloads.
type FetchOptions struct {
	// Tag pins a release; empty means the latest release.
	Tag string
	// Force downloads even when the recorded version is current.
	Force bool
}

// FetchResult reports what Fetch did.
type FetchResult struct {
	Path     string
	Version  string
	Previous string
	Skipped  bool
}

// Fetch downloads the asset named asset into bundleDir and records its
// release in the bundle state. The existing archive is only replaced once
// the download is complete and verified.
func (u *Updater) Fetch(ctx context.Context, asset, bundleDir string, opts FetchOptions) (*FetchResult, error) {
	log := ctxlog.FromContext(ctx).With("asset", asset, "repo", u.repo)

	var (
		release *Release
		err     error
	)
	if opts.Tag != "" {
		release, err = u.ReleaseByTag(ctx, opts.Tag)
	} else {
		release, err = u.LatestRelease(ctx)
	}
	if err != nil {
		return nil, err
	}

	state, err := LoadState(bundleDir)
	if err != nil {
		log.Warn("ignoring unreadable bundle state", "error", err)
		state = BundleState{}
	}

	target := filepath.Join(bundleDir, asset)
	result := &FetchResult{Path: target, Version: release.Version, Previous: state[asset].Version}

	_, statErr := os.Stat(target)
	if !opts.Force && statErr == nil && !IsNewer(result.Previous, release.Version) {
		log.Debug("bundled archive is current", "version", result.Previous)
		result.Skipped = true
		return result, nil
	}

	a, err := FindAsset(release.Assets, asset)
	if err != nil {
		return nil, fmt.Errorf("release %s: %w", release.Version, err)
	}
	expected, err := u.ExpectedChecksum(ctx, release, a.Name)
	if err != nil {
		return nil, err
	}

	log.Debug("downloading", "url", a.DownloadURL, "version", release.Version)
	tmp, sum, err := u.Download(ctx, a, bundleDir)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp)

	if expected != "" && expected != sum {
		return nil, fmt.Errorf("%w for %s: expected %s, got %s", ErrChecksumMismatch, a.Name, expected, sum)
	}
	if expected == "" {
		log.Warn("release has no checksums; archive not verified", "version", release.Version)
	}
	if err := verifyArchive(tmp); err != nil {
		return nil, err
	}
	if err := replaceFile(tmp, target); err != nil {
		return nil, err
	}

	state[asset] = BundleEntry{
		Version:   release.Version,
		Repo:      u.repo,
		SHA256:    sum,
		FetchedAt: time.Now().UTC(),
	}
	if err := SaveState(bundleDir, state); err != nil {
		return nil, err
	}
	return result, nil
}

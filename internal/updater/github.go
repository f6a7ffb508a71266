package updater

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/Merlinas/SublimeAVR/internal/branding"
)

const githubAPIBase = "https://api.github.com"

// ErrReleaseNotFound is returned when the repository has no matching release.
var ErrReleaseNotFound = errors.New("release not found")

// LatestRelease fetches the latest release.
func (u *Updater) LatestRelease(ctx context.Context) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", u.apiBase, u.repo)
	return u.fetchRelease(ctx, url)
}

// ReleaseByTag fetches a release by tag. A missing "v" prefix is added.
func (u *Updater) ReleaseByTag(ctx context.Context, tag string) (*Release, error) {
	if !strings.HasPrefix(tag, "v") {
		tag = "v" + tag
	}
	url := fmt.Sprintf("%s/repos/%s/releases/tags/%s", u.apiBase, u.repo, tag)
	return u.fetchRelease(ctx, url)
}

func (u *Updater) userAgent() string {
	return branding.CLIName() + "-updater"
}

func (u *Updater) fetchRelease(ctx context.Context, url string) (*Release, error) {
	if u.repo == "" {
		return nil, errors.New("no release repository configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", u.userAgent())

	// Support optional GitHub token for higher rate limits.
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		req.Header.Set("Authorization", "token "+token)
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching release: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w in %s", ErrReleaseNotFound, u.repo)
	case http.StatusForbidden:
		return nil, fmt.Errorf("GitHub API rate limit exceeded. Set GITHUB_TOKEN for higher limits")
	default:
		return nil, fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var release Release
	if err := json.Unmarshal(body, &release); err != nil {
		return nil, fmt.Errorf("parsing release JSON: %w", err)
	}

	// If a mirror is configured, rewrite asset download URLs.
	if u.mirror != "" {
		for i := range release.Assets {
			release.Assets[i].DownloadURL = strings.TrimRight(u.mirror, "/") + "/" + release.Assets[i].Name
		}
	}

	return &release, nil
}

// FindAsset returns the asset called name.
func FindAsset(assets []Asset, name string) (*Asset, error) {
	for i := range assets {
		if assets[i].Name == name {
			return &assets[i], nil
		}
	}
	// Release tooling sometimes replaces spaces in asset names.
	alt := strings.ReplaceAll(name, " ", ".")
	for i := range assets {
		if assets[i].Name == alt {
			return &assets[i], nil
		}
	}
	return nil, fmt.Errorf("no asset named %s in release", name)
}

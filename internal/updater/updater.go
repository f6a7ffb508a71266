package updater

import (
	"io"
	"net/http"
	"time"
)

// Release represents a GitHub release.
type Release struct {
	Version   string    `json:"tag_name"`
	Assets    []Asset   `json:"assets"`
	Published time.Time `json:"published_at"`
	HTMLURL   string    `json:"html_url"`
}

// Asset represents a downloadable file attached to a release.
type Asset struct {
	Name        string `json:"name"`
	DownloadURL string `json:"browser_download_url"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// Updater fetches package archives from the releases of one repository.
type Updater struct {
	repo       string
	httpClient *http.Client
	apiBase    string
	mirror     string
	progress   io.Writer
}

// Option configures an Updater.
type Option func(*Updater)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(u *Updater) {
		u.httpClient = c
	}
}

// WithAPIBase points the release lookup at another GitHub API endpoint.
func WithAPIBase(base string) Option {
	return func(u *Updater) {
		u.apiBase = base
	}
}

// WithMirror sets a mirror URL for downloading release assets.
func WithMirror(mirror string) Option {
	return func(u *Updater) {
		u.mirror = mirror
	}
}

// WithProgress reports download progress to w.
func WithProgress(w io.Writer) Option {
	return func(u *Updater) {
		u.progress = w
	}
}

// New creates an Updater for repo ("owner/name").
func New(repo string, opts ...Option) *Updater {
	u := &Updater{
		repo:       repo,
		httpClient: http.DefaultClient,
		apiBase:    githubAPIBase,
		progress:   io.Discard,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Repo returns the repository releases are read from.
func (u *Updater) Repo() string {
	return u.repo
}

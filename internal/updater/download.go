package updater

import (
	"archive/zip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const checksumsAsset = "checksums.txt"

// ErrChecksumMismatch is returned when a download does not match the
// checksum published with the release.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// Download fetches asset into a temporary file inside destDir and returns
// its path and SHA-256. The caller moves or removes the file.
func (u *Updater) Download(ctx context.Context, asset *Asset, destDir string) (string, string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", "", fmt.Errorf("creating %s: %w", destDir, err)
	}

	resp, err := u.get(ctx, asset.DownloadURL)
	if err != nil {
		return "", "", fmt.Errorf("downloading %s: %w", asset.Name, err)
	}
	defer resp.Body.Close()

	f, err := os.CreateTemp(destDir, ".download-*")
	if err != nil {
		return "", "", fmt.Errorf("creating download file: %w", err)
	}
	tmp := f.Name()
	fail := func(err error) (string, string, error) {
		f.Close()
		os.Remove(tmp)
		return "", "", err
	}

	h := sha256.New()
	pr := &progressReader{r: resp.Body, total: resp.ContentLength, w: u.progress, last: -1}
	if _, err := io.Copy(io.MultiWriter(f, h), pr); err != nil {
		return fail(fmt.Errorf("writing download: %w", err))
	}
	pr.done()
	if err := f.Close(); err != nil {
		return fail(fmt.Errorf("closing download: %w", err))
	}
	return tmp, hex.EncodeToString(h.Sum(nil)), nil
}

// ExpectedChecksum returns the published SHA-256 of name, or "" when the
// release carries no checksums file.
func (u *Updater) ExpectedChecksum(ctx context.Context, release *Release, name string) (string, error) {
	var checksumAsset *Asset
	for i := range release.Assets {
		if release.Assets[i].Name == checksumsAsset {
			checksumAsset = &release.Assets[i]
			break
		}
	}
	if checksumAsset == nil {
		return "", nil
	}

	resp, err := u.get(ctx, checksumAsset.DownloadURL)
	if err != nil {
		return "", fmt.Errorf("downloading checksums: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading checksums: %w", err)
	}
	return parseChecksums(string(body), name)
}

// parseChecksums finds name in "sha256  filename" lines.
func parseChecksums(body, name string) (string, error) {
	for _, line := range strings.Split(body, "\n") {
		hash, file, ok := strings.Cut(strings.TrimSpace(line), " ")
		if !ok {
			continue
		}
		file = strings.TrimPrefix(strings.TrimSpace(file), "*")
		if file == name {
			return strings.ToLower(hash), nil
		}
	}
	return "", fmt.Errorf("no checksum found for %s in %s", name, checksumsAsset)
}

// verifyArchive checks that path is a readable zip archive.
func verifyArchive(path string) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("downloaded file is not a package archive: %w", err)
	}
	return r.Close()
}

// replaceFile moves newPath over target, keeping the previous file as a
// backup until the swap succeeds.
func replaceFile(newPath, target string) error {
	backup := target + ".backup"
	hadOld := false
	if _, err := os.Stat(target); err == nil {
		if err := os.Rename(target, backup); err != nil {
			return fmt.Errorf("creating backup: %w", err)
		}
		hadOld = true
	}

	if err := os.Rename(newPath, target); err != nil {
		if hadOld {
			os.Rename(backup, target)
		}
		return fmt.Errorf("installing %s: %w", filepath.Base(target), err)
	}
	if hadOld {
		os.Remove(backup)
	}
	return nil
}

func (u *Updater) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", u.userAgent())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download returned status %d", resp.StatusCode)
	}
	return resp, nil
}

type progressReader struct {
	r     io.Reader
	w     io.Writer
	total int64
	read  int64
	last  int
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	p.read += int64(n)
	if p.total > 0 {
		if percent := int(p.read * 100 / p.total); percent != p.last {
			fmt.Fprintf(p.w, "\rDownloading... %d%%", percent)
			p.last = percent
		}
	}
	return n, err
}

func (p *progressReader) done() {
	if p.total > 0 {
		fmt.Fprintln(p.w)
	}
}

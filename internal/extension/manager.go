package extension

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Merlinas/SublimeAVR/internal/archive"
	"github.com/Merlinas/SublimeAVR/internal/branding"
	"github.com/Merlinas/SublimeAVR/internal/ctxlog"
)

// ArchiveExt is the file extension of packed editor packages.
const ArchiveExt = ".sublime-package"

const userPackage = "User"

// ErrBundleMissing is returned when the package archive is not in the
// bundle directory.
var ErrBundleMissing = errors.New("package archive not bundled")

// Status describes where a package was found.
type Status string

const (
	StatusMissing   Status = "missing"
	StatusUnpacked  Status = "unpacked"  // <Packages>/<name>
	StatusInstalled Status = "installed" // <Installed Packages>/<name>.sublime-package
)

// Manager installs packages into one editor installation.
type Manager struct {
	PackagesPath          string
	InstalledPackagesPath string
	BundleDir             string
}

// InstallResult reports what Install did.
type InstallResult struct {
	Name    string
	Path    string
	Files   []string
	Skipped bool // already installed
	// SettingsPath is set when a default settings file was written.
	SettingsPath string
}

// InstallPath returns the unpacked location of name.
func (m *Manager) InstallPath(name string) string {
	return filepath.Join(m.PackagesPath, name)
}

// ArchivePath returns the bundled archive location of name.
func (m *Manager) ArchivePath(name string) string {
	return filepath.Join(m.BundleDir, name+ArchiveExt)
}

// Check returns where name is installed, if anywhere.
func (m *Manager) Check(name string) Status {
	if _, err := os.Stat(m.InstallPath(name)); err == nil {
		return StatusUnpacked
	}
	if m.InstalledPackagesPath != "" {
		info, err := os.Stat(filepath.Join(m.InstalledPackagesPath, name+ArchiveExt))
		if err == nil && info.Mode().IsRegular() {
			return StatusInstalled
		}
	}
	return StatusMissing
}

// IsInstalled reports whether name is present in either package folder.
func (m *Manager) IsInstalled(name string) bool {
	return m.Check(name) != StatusMissing
}

// Install unpacks the bundled archive of name into the Packages folder.
// Installing a package that is already present is a no-op. The companion
// completion package is disabled by default through its user settings.
func (m *Manager) Install(ctx context.Context, name string) (*InstallResult, error) {
	log := ctxlog.FromContext(ctx).With("package", name)
	result := &InstallResult{Name: name, Path: m.InstallPath(name)}

	if status := m.Check(name); status != StatusMissing {
		log.Debug("package already present", "status", status)
		result.Skipped = true
		return result, nil
	}

	src := m.ArchivePath(name)
	if _, err := os.Stat(src); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBundleMissing, src)
	}

	log.Debug("extracting package", "archive", src, "dest", result.Path)
	files, err := archive.ExtractFile(src, result.Path)
	if err != nil {
		// Leave nothing behind that IsInstalled would mistake for a package.
		os.RemoveAll(result.Path)
		return nil, fmt.Errorf("installing %s: %w", name, err)
	}
	result.Files = files

	if name == branding.CompanionPackage() {
		path, err := m.writeDisabledSettings(name)
		if err != nil {
			return nil, fmt.Errorf("installing %s: %w", name, err)
		}
		result.SettingsPath = path
	}
	return result, nil
}

// writeDisabledSettings writes <Packages>/User/<name>.sublime-settings
// turning the package off until the user enables it per project.
func (m *Manager) writeDisabledSettings(name string) (string, error) {
	dir := filepath.Join(m.PackagesPath, userPackage)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(map[string]bool{"enabled": false}, "", "    ")
	if err != nil {
		return "", fmt.Errorf("encoding settings: %w", err)
	}
	path := filepath.Join(dir, name+".sublime-settings")
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

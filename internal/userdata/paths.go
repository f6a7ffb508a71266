package userdata

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/Merlinas/SublimeAVR/internal/branding"
	"github.com/Merlinas/SublimeAVR/internal/config"
)

// Directory names inside the Sublime Text data directory.
const (
	PackagesDir          = "Packages"
	InstalledPackagesDir = "Installed Packages"
	UserPackage          = "User"
	BundleDir            = "bundle"
)

// Permission constants.
const (
	DirPermNormal  os.FileMode = 0755
	FilePermNormal os.FileMode = 0644
)

// Paths holds the resolved editor locations.
type Paths struct {
	Data              string
	Packages          string
	InstalledPackages string
}

// dataDirNames lists the editor data directory names, newest release first.
var dataDirNames = []string{"Sublime Text", "Sublime Text 3"}

// GetDataDir returns the Sublime Text data directory.
// It checks the SUBLIMEAVR_SUBLIME_DATA environment variable first, then
// the per-OS defaults, preferring the first one that exists.
func GetDataDir() (string, error) {
	if v := os.Getenv(branding.EnvVar("SUBLIME_DATA")); v != "" {
		return v, nil
	}
	base, err := configBase()
	if err != nil {
		return "", err
	}

	var candidates []string
	for _, name := range dataDirNames {
		if runtime.GOOS == "linux" {
			// Linux uses lower-case, dash separated names.
			name = linuxDirName(name)
		}
		candidates = append(candidates, filepath.Join(base, name))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return c, nil
		}
	}
	return candidates[0], nil
}

func configBase() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if v := os.Getenv("APPDATA"); v != "" {
			return v, nil
		}
	case "linux":
		if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
			return v, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support"), nil
	case "windows":
		return filepath.Join(home, "AppData", "Roaming"), nil
	default:
		return filepath.Join(home, ".config"), nil
	}
}

func linuxDirName(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r == ' ':
			out = append(out, '-')
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

// Resolve returns the editor locations. Non-empty overrides win over the
// defaults derived from the data directory.
func Resolve(packagesOverride, installedOverride string) (Paths, error) {
	p := Paths{
		Packages:          config.ExpandHome(packagesOverride),
		InstalledPackages: config.ExpandHome(installedOverride),
	}
	if p.Packages != "" && p.InstalledPackages != "" {
		p.Data = filepath.Dir(p.Packages)
		return p, nil
	}

	data, err := GetDataDir()
	if err != nil {
		return Paths{}, err
	}
	p.Data = data
	if p.Packages == "" {
		p.Packages = filepath.Join(data, PackagesDir)
	}
	if p.InstalledPackages == "" {
		p.InstalledPackages = filepath.Join(data, InstalledPackagesDir)
	}
	return p, nil
}

// GetBundleDir returns the directory holding bundled .sublime-package
// archives: the override when set, otherwise ~/.sublimeavr/bundle.
func GetBundleDir(override string) string {
	if override != "" {
		return config.ExpandHome(override)
	}
	return filepath.Join(config.Dir(), BundleDir)
}

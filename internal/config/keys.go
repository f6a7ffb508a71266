package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyPath                  = "path"
	KeyWorkdir               = "workdir"
	KeyMCU                   = "mcu"
	KeyCStd                  = "c_std"
	KeyCXXStd                = "cpp_std"
	KeyOptimize              = "optimize"
	KeyProgrammer            = "programmer"
	KeyTemplatesDir          = "templates_dir"
	KeyBundleDir             = "bundle_dir"
	KeyBundleRepo            = "bundle_repo"
	KeyBundleMirror          = "bundle_mirror"
	KeyPackagesPath          = "packages_path"
	KeyInstalledPackagesPath = "installed_packages_path"
)

// Defaults applied when a key is absent.
const (
	DefaultCStd       = "c99"
	DefaultCXXStd     = "c++98"
	DefaultOptimize   = "s"
	DefaultProgrammer = "dragon_isp"
)

// Keys lists every key accepted by Set, in display order.
var Keys = []string{
	KeyPath,
	KeyWorkdir,
	KeyMCU,
	KeyCStd,
	KeyCXXStd,
	KeyOptimize,
	KeyProgrammer,
	KeyTemplatesDir,
	KeyBundleDir,
	KeyBundleRepo,
	KeyBundleMirror,
	KeyPackagesPath,
	KeyInstalledPackagesPath,
}

// IsKnownKey reports whether key is one of Keys.
func IsKnownKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Values is an immutable snapshot of the loaded configuration with
// defaults applied. Callers take one snapshot per command and pass it on.
type Values struct {
	Path                  string
	Workdir               string
	MCU                   string
	CStd                  string
	CXXStd                string
	Optimize              string
	Programmer            string
	TemplatesDir          string
	BundleDir             string
	BundleRepo            string
	BundleMirror          string
	PackagesPath          string
	InstalledPackagesPath string
}

// Snapshot reads the current configuration. Load must have been called.
func Snapshot() Values {
	v := Values{
		Path:                  viper.GetString(KeyPath),
		Workdir:               viper.GetString(KeyWorkdir),
		MCU:                   viper.GetString(KeyMCU),
		CStd:                  viper.GetString(KeyCStd),
		CXXStd:                viper.GetString(KeyCXXStd),
		Optimize:              viper.GetString(KeyOptimize),
		Programmer:            viper.GetString(KeyProgrammer),
		TemplatesDir:          viper.GetString(KeyTemplatesDir),
		BundleDir:             viper.GetString(KeyBundleDir),
		BundleRepo:            viper.GetString(KeyBundleRepo),
		BundleMirror:          viper.GetString(KeyBundleMirror),
		PackagesPath:          viper.GetString(KeyPackagesPath),
		InstalledPackagesPath: viper.GetString(KeyInstalledPackagesPath),
	}
	// An explicitly empty workdir still means the home directory.
	if v.Workdir == "" {
		v.Workdir = "~"
	}
	v.Workdir = ExpandHome(v.Workdir)
	return v
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

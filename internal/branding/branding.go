// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into
// the binary with //go:embed.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName          string `yaml:"cli_name"`
	DisplayName      string `yaml:"display_name"`
	Description      string `yaml:"description"`
	HomeDir          string `yaml:"home_dir"`
	EnvPrefix        string `yaml:"env_prefix"`
	ProjectFile      string `yaml:"project_file"`
	CompanionPackage string `yaml:"companion_package"`
}

func load() {
	once.Do(func() {
		// Set hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:          "sublimeavr",
			DisplayName:      "SublimeAVR",
			Description:      "Scaffold AVR-GCC projects for Sublime Text",
			HomeDir:          ".sublimeavr",
			EnvPrefix:        "SUBLIMEAVR",
			ProjectFile:      "SublimeAVR.sublime-project",
			CompanionPackage: "SublimeClang",
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "sublimeavr").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name. It also names the
// build system entry written into project files.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".sublimeavr").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "SUBLIMEAVR").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// ProjectFile returns the project file name written into project folders.
func ProjectFile() string { load(); return defaults.ProjectFile }

// CompanionPackage returns the name of the code-completion package that
// projects are configured for.
func CompanionPackage() string { load(); return defaults.CompanionPackage }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "SUBLIMEAVR_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}

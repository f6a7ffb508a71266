package project

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Merlinas/SublimeAVR/internal/branding"
	"github.com/Merlinas/SublimeAVR/internal/ctxlog"
	"github.com/Merlinas/SublimeAVR/internal/programmer"
	"github.com/Merlinas/SublimeAVR/internal/toolchain"
)

// Defaults for settings left empty.
const (
	DefaultCStd     = "c99"
	DefaultCXXStd   = "c++98"
	DefaultOptimize = "s"
)

// Settings are the choices a project is generated from. A Settings value
// is taken once at the start of a command and never modified afterwards.
type Settings struct {
	MCU        string // device, passed as -mmcu
	CStd       string // e.g. "c99"
	CXXStd     string // e.g. "c++98"
	Optimize   string // level passed as -O<Optimize>, e.g. "s"
	Location   string // toolchain bin directory holding avr-gcc
	Path       string // directories prepended to PATH for the build, may be empty
	Programmer string // avrdude programmer id, may be empty
	Dest       string // project folder
}

// WithDefaults returns s with empty language standards and optimization
// level replaced by their defaults.
func (s Settings) WithDefaults() Settings {
	if s.CStd == "" {
		s.CStd = DefaultCStd
	}
	if s.CXXStd == "" {
		s.CXXStd = DefaultCXXStd
	}
	if s.Optimize == "" {
		s.Optimize = DefaultOptimize
	}
	return s
}

// Prober is the part of toolchain.Probe the builder needs.
type Prober interface {
	Version(ctx context.Context) toolchain.VersionResult
	Predefs(ctx context.Context, flags ...string) toolchain.MacroResult
}

// Builder composes fresh project documents.
type Builder struct {
	Probe Prober
	Parts programmer.Table
	// Getenv reads the inherited environment; defaults to os.Getenv.
	Getenv func(string) string
}

// BuildResult is a composed document plus notes about degraded probes.
type BuildResult struct {
	Document *Document
	Version  toolchain.VersionResult
	Warnings []string
}

// ErrNoDevice is returned when Settings carries no device.
var ErrNoDevice = errors.New("no device selected")

// Build composes a complete project document for s. It either returns a
// full document or an error, never a partial document.
func (b *Builder) Build(ctx context.Context, s Settings) (*BuildResult, error) {
	if b.Probe == nil {
		return nil, errors.New("builder has no toolchain probe")
	}
	s = s.WithDefaults()
	if s.MCU == "" {
		return nil, ErrNoDevice
	}
	log := ctxlog.FromContext(ctx)

	result := &BuildResult{}
	result.Version = b.Probe.Version(ctx)
	if result.Version.Degraded {
		result.Warnings = append(result.Warnings,
			"could not determine the compiler version; compiler include paths may be wrong")
	}

	c, cWarn := b.languageOptions(ctx, s, LangC, s.CStd, result.Version.Value)
	cxx, cxxWarn := b.languageOptions(ctx, s, LangCXX, s.CXXStd, result.Version.Value)
	result.Warnings = append(result.Warnings, cWarn...)
	result.Warnings = append(result.Warnings, cxxWarn...)

	dudeFlags := b.Parts.Args(s.MCU, s.Programmer)
	if dudeFlags == "" {
		log.Debug("device has no avrdude part mapping", "mcu", s.MCU)
	}

	result.Document = &Document{
		BuildSystems: []BuildSystem{{
			Name: branding.DisplayName(),
			Cmd:  []string{"make"},
			Env: Env{
				MMCU:         s.MCU,
				CStd:         s.CStd,
				CXXStd:       s.CXXStd,
				AvrdudeFlags: dudeFlags,
			},
			Path:       b.searchPath(s.Path),
			WorkingDir: "${project_path}",
			Selector:   "source.c, source.c++",
			Variants: []Variant{
				{Cmd: []string{"make", "re"}, Name: "Rebuild"},
				{Cmd: []string{"make", "clean"}, Name: "Clean"},
				{Cmd: []string{"make", "debug"}, Name: "Debug"},
				{Cmd: []string{"make", "avrdude"}, Name: "Run"},
			},
		}},
		Folders: []Folder{{Path: "."}},
		Settings: ClangSettings{
			Enabled:                  true,
			DontPrependClangIncludes: true,
			HideOutputWhenEmpty:      true,
			WorkerThreadCount:        -1,
			ShowOutputPanel:          false,
			ShowStatus:               true,
			ShowVisualErrorMarks:     true,
			Options: []string{
				"-Wall",
				"-Wno-deprecated-declarations",
				"-ccc-host-triple", "mips",
				"-include", "${project_path:settings.h}",
			},
			AddLanguageOption: true,
			LanguageOptions: LanguageOptions{
				C:   c,
				CXX: cxx,
			},
		},
	}
	return result, nil
}

// languageOptions returns the standard flag, the toolchain include paths and
// one -U option per macro the compiler predefines for this language.
func (b *Builder) languageOptions(ctx context.Context, s Settings, lang, std, version string) ([]string, []string) {
	stdFlag := "-std=" + std
	opts := []string{stdFlag}
	for _, dir := range IncludeDirs(s.Location, version) {
		opts = append(opts, "-I"+dir)
	}

	predefs := b.Probe.Predefs(ctx, stdFlag, "-x"+lang, "-mmcu="+s.MCU, "-O"+s.Optimize)
	var warnings []string
	if predefs.Degraded {
		warnings = append(warnings,
			fmt.Sprintf("%s reported no predefined %s macros for %s", toolchain.CompilerName, lang, s.MCU))
	}
	return append(opts, toolchain.MacrosToOptions(predefs.Macros, true)...), warnings
}

// IncludeDirs returns the header directories of a toolchain whose
// executables live in location. All four are returned whether they exist
// or not; the second is where Linux distributions install avr-libc.
func IncludeDirs(location, version string) []string {
	return []string{
		filepath.Join(location, "..", "avr", "include"),
		filepath.Join(location, "..", "lib", "avr", "include"),
		filepath.Join(location, "..", "lib", "gcc", "avr", version, "include"),
		filepath.Join(location, "..", "lib", "gcc", "avr", version, "include-fixed"),
	}
}

// searchPath returns the build PATH: the configured directories followed by
// the inherited PATH. The running process's environment is not modified.
func (b *Builder) searchPath(prefix string) string {
	getenv := b.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	inherited := getenv("PATH")
	if prefix == "" {
		return inherited
	}
	return filepath.Clean(prefix) + string(os.PathListSeparator) + inherited
}

package toolchain

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/Merlinas/SublimeAVR/internal/ctxlog"
)

var (
	versionPattern = regexp.MustCompile(`\d+(?:\.\d+)+`)
	definePattern  = regexp.MustCompile(`^#define\s+(\S+)(?:\s+(.*))?$`)
)

// Probe queries the programs of one toolchain installation.
type Probe struct {
	// Location is the directory holding the executables. Empty means the
	// programs are resolved through PATH.
	Location string
	Runner   Runner
}

// NewProbe returns a Probe for the toolchain in location backed by ExecRunner.
func NewProbe(location string) *Probe {
	return &Probe{Location: location, Runner: ExecRunner{}}
}

// VersionResult is the outcome of a version query.
type VersionResult struct {
	// Value is the raw dotted token, e.g. "5.4.0". Empty when degraded.
	Value string
	// Semver is Value parsed as a semantic version, or nil when it does
	// not parse as one.
	Semver   *semver.Version
	Degraded bool
}

// String returns the version or "unknown".
func (v VersionResult) String() string {
	if v.Degraded {
		return "unknown"
	}
	return v.Value
}

// Macro is one predefined macro. Value may be empty.
type Macro struct {
	Name  string
	Value string
}

// MacroTable holds predefined macros in the order the compiler printed
// them. Names are unique.
type MacroTable []Macro

// MacroResult is the outcome of a predefined-macro query.
type MacroResult struct {
	Macros   MacroTable
	Degraded bool
}

func (p *Probe) tool(name string) string {
	if p.Location == "" {
		return name
	}
	return filepath.Join(p.Location, name)
}

func (p *Probe) runner() Runner {
	if p.Runner == nil {
		return ExecRunner{}
	}
	return p.Runner
}

// Version runs the compiler with --version and returns the first dotted
// number found in its output.
func (p *Probe) Version(ctx context.Context) VersionResult {
	log := ctxlog.FromContext(ctx)
	out, err := p.runner().Run(ctx, p.tool(CompilerName), []string{"--version"}, "")
	if err != nil {
		log.Warn("compiler version query failed", "error", err)
		return VersionResult{Degraded: true}
	}

	v := ParseVersion(out.Stdout)
	if v.Degraded {
		v = ParseVersion(out.Stderr)
	}
	if v.Degraded {
		log.Warn("compiler reported no version", "exit_code", out.ExitCode)
	} else {
		log.Debug("compiler version", "version", v.Value)
	}
	return v
}

// ParseVersion extracts the first dotted number from text.
func ParseVersion(text string) VersionResult {
	token := versionPattern.FindString(text)
	if token == "" {
		return VersionResult{Degraded: true}
	}
	result := VersionResult{Value: token}
	if sv, err := semver.NewVersion(token); err == nil {
		result.Semver = sv
	}
	return result
}

// Predefs asks the compiler to preprocess an empty translation unit with
// -dM -E plus flags and returns the macros it defines.
func (p *Probe) Predefs(ctx context.Context, flags ...string) MacroResult {
	log := ctxlog.FromContext(ctx)

	args := make([]string, 0, len(flags)+3)
	args = append(args, "-dM", "-E")
	args = append(args, flags...)
	args = append(args, "-")

	out, err := p.runner().Run(ctx, p.tool(CompilerName), args, "")
	if err != nil {
		log.Warn("predefined macro query failed", "flags", flags, "error", err)
		return MacroResult{Macros: MacroTable{}, Degraded: true}
	}
	if out.ExitCode != 0 {
		log.Warn("predefined macro query exited non-zero", "flags", flags,
			"exit_code", out.ExitCode, "stderr", strings.TrimSpace(out.Stderr))
		return MacroResult{Macros: MacroTable{}, Degraded: true}
	}

	macros := ParseMacros(out.Stdout)
	log.Debug("predefined macros", "flags", flags, "count", len(macros))
	return MacroResult{Macros: macros, Degraded: len(macros) == 0}
}

// ParseMacros reads "#define NAME VALUE" lines. Other lines are ignored.
// A name defined twice keeps its first position and its last value.
func ParseMacros(dump string) MacroTable {
	table := MacroTable{}
	seen := make(map[string]int)
	for _, line := range strings.Split(dump, "\n") {
		m := definePattern.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[2])
		if i, ok := seen[m[1]]; ok {
			table[i].Value = value
			continue
		}
		seen[m[1]] = len(table)
		table = append(table, Macro{Name: m[1], Value: value})
	}
	return table
}

package project

import (
	"context"
	"strings"

	"github.com/Merlinas/SublimeAVR/internal/programmer"
	"github.com/Merlinas/SublimeAVR/internal/toolchain"
)

// fakeProbe answers version and macro queries from fixed data and records
// the flags of each macro query.
type fakeProbe struct {
	version toolchain.VersionResult
	macros  map[string]toolchain.MacroTable // keyed by the -x flag
	queries []string
}

func (f *fakeProbe) Version(context.Context) toolchain.VersionResult {
	return f.version
}

func (f *fakeProbe) Predefs(_ context.Context, flags ...string) toolchain.MacroResult {
	f.queries = append(f.queries, strings.Join(flags, " "))
	for _, flag := range flags {
		if table, ok := f.macros[flag]; ok {
			return toolchain.MacroResult{Macros: table}
		}
	}
	return toolchain.MacroResult{Macros: toolchain.MacroTable{}, Degraded: true}
}

func newFakeProbe() *fakeProbe {
	return &fakeProbe{
		version: toolchain.ParseVersion("avr-gcc (GCC) 5.4.0"),
		macros: map[string]toolchain.MacroTable{
			"-xc": {
				{Name: "__AVR_ATmega328P__", Value: "1"},
				{Name: "F_CPU", Value: "16000000UL"},
			},
			"-xc++": {
				{Name: "__AVR_ATmega328P__", Value: "1"},
				{Name: "__cplusplus", Value: "199711L"},
			},
		},
	}
}

func newTestBuilder(probe Prober) *Builder {
	return &Builder{
		Probe: probe,
		Parts: programmer.Table{"atmega328p": "m328p"},
		Getenv: func(key string) string {
			if key == "PATH" {
				return "/usr/bin:/bin"
			}
			return ""
		},
	}
}

func testSettings(dest string) Settings {
	return Settings{
		MCU:      "atmega328p",
		CStd:     "c99",
		Optimize: "s",
		Location: "/opt/avr/bin",
		Dest:     dest,
	}
}

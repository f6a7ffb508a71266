package cli

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Merlinas/SublimeAVR/internal/config"
	"github.com/Merlinas/SublimeAVR/internal/platform"
	"github.com/Merlinas/SublimeAVR/internal/toolchain"
	"github.com/Merlinas/SublimeAVR/internal/ui"
	"github.com/stretchr/testify/require"
)

const (
	fakeVersion = "avr-gcc (GCC) 5.4.0\nCopyright (C) 2015 Free Software Foundation, Inc.\n"
	fakeDevices = "Known MCU names:\n  atmega8 atmega328p attiny85\n"
	fakeMacros  = "#define __AVR__ 1\n#define __AVR_ATmega328P__ 1\n#define __OPTIMIZE_SIZE__ 1\n"
)

// toolRunner fakes avr-gcc and avr-as by their first argument.
type toolRunner struct {
	devices string
	calls   []string
}

func (r *toolRunner) Run(_ context.Context, name string, args []string, _ string) (*toolchain.Output, error) {
	r.calls = append(r.calls, filepath.Base(name)+" "+strings.Join(args, " "))
	switch {
	case len(args) == 1 && args[0] == "--version":
		return &toolchain.Output{Stdout: fakeVersion}, nil
	case len(args) == 1 && args[0] == "-mlist-devices":
		return &toolchain.Output{Stdout: r.devices}, nil
	case len(args) > 2 && args[0] == "-dM":
		return &toolchain.Output{Stdout: fakeMacros}, nil
	}
	return nil, fmt.Errorf("unexpected invocation %s %v", name, args)
}

// testEnv is an isolated toolchain, editor and config location.
type testEnv struct {
	root   string
	bin    string
	runner *toolRunner
	values config.Values
	out    *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	t.Setenv("SUBLIMEAVR_HOME", filepath.Join(root, "home"))

	bin := filepath.Join(root, "avr", "bin")
	require.NoError(t, os.MkdirAll(bin, 0755))
	for _, name := range []string{toolchain.CompilerName, toolchain.AssemblerName} {
		path := filepath.Join(bin, platform.ExecutableName(name))
		require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0755))
	}

	sublime := filepath.Join(root, "sublime")
	env := &testEnv{
		root:   root,
		bin:    bin,
		runner: &toolRunner{devices: fakeDevices},
		out:    &bytes.Buffer{},
		values: config.Values{
			Path:                  bin,
			Workdir:               root,
			CStd:                  config.DefaultCStd,
			CXXStd:                config.DefaultCXXStd,
			Optimize:              config.DefaultOptimize,
			Programmer:            config.DefaultProgrammer,
			BundleDir:             filepath.Join(root, "bundle"),
			PackagesPath:          filepath.Join(sublime, "Packages"),
			InstalledPackagesPath: filepath.Join(sublime, "Installed Packages"),
		},
	}
	require.NoError(t, os.MkdirAll(env.values.BundleDir, 0755))
	require.NoError(t, os.MkdirAll(env.values.PackagesPath, 0755))
	return env
}

// app returns an app answering prompts from input.
func (e *testEnv) app(input string) *app {
	return &app{
		values: e.values,
		out:    ui.New(e.out),
		errOut: ui.New(e.out),
		prompt: newPrompter(strings.NewReader(input), e.out),
		runner: e.runner,
	}
}

// bundleCompanion places a SublimeClang archive in the bundle directory.
func (e *testEnv) bundleCompanion(t *testing.T) {
	t.Helper()
	f, err := os.Create(filepath.Join(e.values.BundleDir, "SublimeClang.sublime-package"))
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	fw, err := w.Create("sublimeclang.py")
	require.NoError(t, err)
	_, err = fw.Write([]byte("# completion plugin\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

package cli

import (
	"fmt"

	"github.com/Merlinas/SublimeAVR/internal/branding"
	"github.com/Merlinas/SublimeAVR/internal/config"
	"github.com/Merlinas/SublimeAVR/internal/extension"
	"github.com/Merlinas/SublimeAVR/internal/programmer"
	"github.com/Merlinas/SublimeAVR/internal/project"
	"github.com/Merlinas/SublimeAVR/internal/toolchain"
	"github.com/Merlinas/SublimeAVR/internal/ui"
	"github.com/Merlinas/SublimeAVR/internal/userdata"
	"github.com/spf13/cobra"
)

// newRunner starts toolchain programs; tests swap in a fake.
var newRunner = func() toolchain.Runner { return toolchain.ExecRunner{} }

// app bundles what a command needs: one settings snapshot, output and
// input streams, and constructors for the domain components.
type app struct {
	values config.Values
	out    *ui.Printer
	errOut *ui.Printer
	prompt *prompter
	runner toolchain.Runner
}

func newApp(cmd *cobra.Command) *app {
	return &app{
		values: config.Snapshot(),
		out:    newPrinter(cmd),
		errOut: ui.New(cmd.ErrOrStderr()),
		prompt: newPrompter(cmd.InOrStdin(), cmd.OutOrStdout()),
		runner: newRunner(),
	}
}

func newPrinter(cmd *cobra.Command) *ui.Printer {
	return ui.New(cmd.OutOrStdout())
}

// locate finds the compiler, trying the configured path first.
func (a *app) locate() (string, error) {
	location, err := toolchain.Locate(toolchain.CompilerName, a.values.Path)
	if err != nil {
		return "", fmt.Errorf("%w (install avr-gcc or run `%s config set path <dir>`)", err, branding.CLIName())
	}
	return location, nil
}

func (a *app) probe(location string) *toolchain.Probe {
	return &toolchain.Probe{Location: location, Runner: a.runner}
}

func (a *app) builder(probe project.Prober) (*project.Builder, error) {
	parts, err := programmer.Bundled()
	if err != nil {
		return nil, err
	}
	return &project.Builder{Probe: probe, Parts: parts}, nil
}

// plugins returns the package manager for the configured editor install.
func (a *app) plugins() (*extension.Manager, error) {
	paths, err := userdata.Resolve(a.values.PackagesPath, a.values.InstalledPackagesPath)
	if err != nil {
		return nil, fmt.Errorf("resolving Sublime Text packages: %w", err)
	}
	return &extension.Manager{
		PackagesPath:          paths.Packages,
		InstalledPackagesPath: paths.InstalledPackages,
		BundleDir:             userdata.GetBundleDir(a.values.BundleDir),
	}, nil
}

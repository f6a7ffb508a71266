package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/Merlinas/SublimeAVR/internal/branding"
	"github.com/Merlinas/SublimeAVR/internal/config"
	"github.com/Merlinas/SublimeAVR/internal/extension"
	"github.com/Merlinas/SublimeAVR/internal/programmer"
	"github.com/Merlinas/SublimeAVR/internal/toolchain"
	"github.com/Merlinas/SublimeAVR/internal/userdata"
	"github.com/spf13/cobra"
)

var doctorFix bool

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Create missing Sublime Text package folders")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the toolchain and editor setup",
	Long:  `Run diagnostic checks on the avr-gcc toolchain, the configuration and the Sublime Text packages.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp(cmd)
		w := cmd.OutOrStdout()

		problems := a.checkToolchain(cmd, w)
		checkConfigFile(w)
		problems += a.checkEditor(w)

		if problems > 0 {
			return fmt.Errorf("%d problem(s) found", problems)
		}
		return nil
	},
}

func (a *app) checkToolchain(cmd *cobra.Command, w io.Writer) int {
	fmt.Fprintln(w, "Toolchain check:")
	problems := 0

	location, err := toolchain.Locate(toolchain.CompilerName, a.values.Path)
	if err != nil {
		fmt.Fprintf(w, "  [MISS] %s not found\n", toolchain.CompilerName)
		fmt.Fprintf(w, "         Run '%s config set path <dir>' if it is installed outside PATH\n", branding.CLIName())
		return 1
	}
	fmt.Fprintf(w, "  [ OK ] %s found in %s\n", toolchain.CompilerName, location)

	probe := a.probe(location)
	if version := probe.Version(cmd.Context()); version.Degraded {
		fmt.Fprintf(w, "  [WARN] %s version could not be determined\n", toolchain.CompilerName)
	} else {
		fmt.Fprintf(w, "  [ OK ] %s version %s\n", toolchain.CompilerName, version.Value)
	}

	if _, err := toolchain.Locate(toolchain.AssemblerName, location); err != nil {
		fmt.Fprintf(w, "  [MISS] %s not found\n", toolchain.AssemblerName)
		problems++
	} else if devices := probe.Devices(cmd.Context()); len(devices.Devices) == 0 {
		fmt.Fprintf(w, "  [WARN] %s reported no devices\n", toolchain.AssemblerName)
	} else {
		fmt.Fprintf(w, "  [ OK ] %d devices supported\n", len(devices.Devices))
	}

	if parts, err := programmer.Bundled(); err != nil {
		fmt.Fprintf(w, "  [FAIL] avrdude part table: %v\n", err)
		problems++
	} else if a.values.MCU != "" {
		if part, ok := parts.Part(a.values.MCU); ok {
			fmt.Fprintf(w, "  [ OK ] %s maps to avrdude part %s\n", a.values.MCU, part)
		} else {
			fmt.Fprintf(w, "  [WARN] %s has no avrdude part; the Run variant will not flash\n", a.values.MCU)
		}
	}
	return problems
}

func checkConfigFile(w io.Writer) {
	fmt.Fprintln(w, "Config check:")
	path := config.FilePath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(w, "  [INFO] %s not created yet (defaults in use)\n", path)
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s exists\n", path)
}

func (a *app) checkEditor(w io.Writer) int {
	paths, err := userdata.Resolve(a.values.PackagesPath, a.values.InstalledPackagesPath)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return 1
	}
	problems := userdata.CheckSublime(w, paths, doctorFix)

	fmt.Fprintln(w, "Plugin check:")
	mgr := &extension.Manager{
		PackagesPath:          paths.Packages,
		InstalledPackagesPath: paths.InstalledPackages,
		BundleDir:             userdata.GetBundleDir(a.values.BundleDir),
	}
	name := branding.CompanionPackage()
	if status := mgr.Check(name); status != extension.StatusMissing {
		fmt.Fprintf(w, "  [ OK ] %s is %s\n", name, status)
		return problems
	}
	fmt.Fprintf(w, "  [MISS] %s is not installed\n", name)
	if userdata.CheckBundle(w, mgr.BundleDir, name+extension.ArchiveExt) {
		fmt.Fprintf(w, "         Run '%s plugin install' to install it\n", branding.CLIName())
	} else {
		fmt.Fprintf(w, "         Run '%s plugin fetch' or copy the archive into the bundle directory\n", branding.CLIName())
	}
	return problems + 1
}

package cli

import (
	"fmt"

	"github.com/Merlinas/SublimeAVR/internal/project"
	"github.com/Merlinas/SublimeAVR/internal/toolchain"
	"github.com/spf13/cobra"
)

var (
	probeMCU      string
	probeLang     string
	probeStd      string
	probeOptimize string
	probeUndef    bool
)

func init() {
	f := probeCmd.Flags()
	f.StringVar(&probeMCU, "mcu", "", "Target device (default: config mcu)")
	f.StringVar(&probeLang, "lang", project.LangC, "Language: c or c++")
	f.StringVar(&probeStd, "std", "", "Language standard (default: config c_std or cpp_std)")
	f.StringVarP(&probeOptimize, "optimize", "O", "", "Optimization level (default: config optimize)")
	f.BoolVarP(&probeUndef, "undef", "U", false, "Print -U options instead of -D")
	rootCmd.AddCommand(probeCmd)
}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Show what the compiler reports for a device",
	Long: `Show the compiler location and version, the include directories used in
project files, and the macros the compiler predefines for a device, written as
-D options (or -U options with --undef).

Example:
  sublimeavr probe --mcu atmega328p --lang c++`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp(cmd)
		if probeLang != project.LangC && probeLang != project.LangCXX {
			return fmt.Errorf("--lang must be %q or %q, got %q", project.LangC, project.LangCXX, probeLang)
		}

		location, err := a.locate()
		if err != nil {
			return err
		}
		probe := a.probe(location)
		ctx := cmd.Context()

		version := probe.Version(ctx)
		if version.Degraded {
			a.errOut.Warning("could not determine the %s version", toolchain.CompilerName)
		}

		std := probeStd
		if std == "" {
			std = a.values.CStd
			if probeLang == project.LangCXX {
				std = a.values.CXXStd
			}
		}
		mcu := firstNonEmpty(probeMCU, a.values.MCU)
		optimize := firstNonEmpty(probeOptimize, a.values.Optimize)

		a.out.KeyValues([][2]string{
			{"location", location},
			{"version", version.String()},
			{"device", firstNonEmpty(mcu, "-")},
		})
		fmt.Fprintln(cmd.OutOrStdout())
		for _, dir := range project.IncludeDirs(location, version.Value) {
			fmt.Fprintf(cmd.OutOrStdout(), "-I%s\n", dir)
		}

		flags := []string{"-std=" + std, "-x" + probeLang}
		if mcu != "" {
			flags = append(flags, "-mmcu="+mcu)
		}
		flags = append(flags, "-O"+optimize)

		macros := probe.Predefs(ctx, flags...)
		if macros.Degraded {
			a.errOut.Warning("%s reported no predefined macros for %v", toolchain.CompilerName, flags)
			return nil
		}
		for _, opt := range toolchain.MacrosToOptions(macros.Macros, probeUndef) {
			fmt.Fprintln(cmd.OutOrStdout(), opt)
		}
		return nil
	},
}

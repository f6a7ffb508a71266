package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Merlinas/SublimeAVR/internal/toolchain"
	"github.com/spf13/cobra"
)

var (
	devicesJSON   bool
	devicesFilter string
)

func init() {
	devicesCmd.Flags().BoolVar(&devicesJSON, "json", false, "Output as JSON")
	devicesCmd.Flags().StringVarP(&devicesFilter, "filter", "f", "", "Only list devices containing this text")
	rootCmd.AddCommand(devicesCmd)
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List the devices the toolchain supports",
	Long: `List the device names accepted by -mmcu, as reported by avr-as -mlist-devices.

Examples:
  sublimeavr devices
  sublimeavr devices --filter tiny`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp(cmd)
		location, err := a.locate()
		if err != nil {
			return err
		}

		result := a.probe(location).Devices(cmd.Context())
		if result.Degraded {
			a.errOut.Warning("%s did not report a device list", toolchain.AssemblerName)
		}

		devices := filterDevices(result.Devices, devicesFilter)
		if devicesJSON {
			if devices == nil {
				devices = []string{}
			}
			data, err := json.MarshalIndent(devices, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		}
		for _, d := range devices {
			fmt.Fprintln(cmd.OutOrStdout(), d)
		}
		return nil
	},
}

func filterDevices(devices []string, filter string) []string {
	if filter == "" {
		return devices
	}
	filter = strings.ToLower(filter)
	var out []string
	for _, d := range devices {
		if strings.Contains(strings.ToLower(d), filter) {
			out = append(out, d)
		}
	}
	return out
}

package cli

import (
	"fmt"

	"github.com/Merlinas/SublimeAVR/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long: `Read and write settings stored at ~/.sublimeavr/config.yaml.

Keys:
  path                     directories searched for avr-gcc before PATH,
                           also prepended to PATH in the build system
  workdir                  default parent folder for new projects (default ~)
  mcu                      device used when --mcu is not given
  c_std, cpp_std           language standards (default c99, c++98)
  optimize                 optimization level passed as -O (default s)
  programmer               avrdude programmer id (default dragon_isp)
  templates_dir            folder of template .zip files (default: built-in)
  bundle_dir               folder holding .sublime-package archives
  bundle_repo              GitHub repository "owner/name" for plugin fetch
  bundle_mirror            mirror base URL for plugin fetch downloads
  packages_path            Sublime Text Packages folder override
  installed_packages_path  Sublime Text Installed Packages folder override

Every key can also be set through the environment, e.g. SUBLIMEAVR_MCU.`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !config.IsKnownKey(args[0]) {
			return fmt.Errorf("unknown config key %q", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), config.Get(args[0]))
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pairs := make([][2]string, 0, len(config.Keys))
		for _, key := range config.Keys {
			value := config.Get(key)
			if value == "" {
				value = "-"
			}
			pairs = append(pairs, [2]string{key, value})
		}
		newPrinter(cmd).KeyValues(pairs)
		return nil
	},
}

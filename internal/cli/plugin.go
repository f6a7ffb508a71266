package cli

import (
	"fmt"
	"time"

	"github.com/Merlinas/SublimeAVR/internal/branding"
	"github.com/Merlinas/SublimeAVR/internal/config"
	"github.com/Merlinas/SublimeAVR/internal/extension"
	"github.com/Merlinas/SublimeAVR/internal/updater"
	"github.com/Merlinas/SublimeAVR/internal/userdata"
	"github.com/spf13/cobra"
)

var (
	fetchTag   string
	fetchForce bool
)

// bundleMaxAge is how long a fetched archive is considered current by
// plugin status.
const bundleMaxAge = 90 * 24 * time.Hour

func init() {
	pluginFetchCmd.Flags().StringVar(&fetchTag, "tag", "", "Release tag to fetch (default: latest)")
	pluginFetchCmd.Flags().BoolVar(&fetchForce, "force", false, "Download even if the bundled archive is current")

	pluginCmd.AddCommand(pluginStatusCmd)
	pluginCmd.AddCommand(pluginInstallCmd)
	pluginCmd.AddCommand(pluginFetchCmd)
	rootCmd.AddCommand(pluginCmd)
}

var pluginCmd = &cobra.Command{
	Use:   "plugin",
	Short: "Manage the " + branding.CompanionPackage() + " editor package",
	Long: `Install and inspect the code-completion package that generated projects are
configured for. Packages are installed from .sublime-package archives in the
bundle directory (config bundle_dir, default ~/.sublimeavr/bundle).`,
}

var pluginStatusCmd = &cobra.Command{
	Use:   "status [package]",
	Short: "Show whether a package is installed",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp(cmd)
		mgr, err := a.plugins()
		if err != nil {
			return err
		}
		name := packageArg(args)

		status := mgr.Check(name)
		location := "-"
		switch status {
		case extension.StatusUnpacked:
			location = mgr.InstallPath(name)
		case extension.StatusInstalled:
			location = mgr.InstalledPackagesPath
		}
		pairs := [][2]string{
			{"package", name},
			{"status", string(status)},
			{"location", location},
			{"bundle", mgr.ArchivePath(name)},
		}

		state, err := updater.LoadState(mgr.BundleDir)
		if err != nil {
			return err
		}
		entry, fetched := state[name+extension.ArchiveExt]
		if fetched {
			pairs = append(pairs,
				[2]string{"version", entry.Version},
				[2]string{"fetched", entry.FetchedAt.Format(time.DateOnly) + " from " + entry.Repo})
		}
		a.out.KeyValues(pairs)

		if fetched && entry.IsStale(bundleMaxAge) {
			a.out.Info("The bundled archive is more than %d days old; run '%s plugin fetch' to check for a newer release",
				int(bundleMaxAge.Hours()/24), branding.CLIName())
		}
		return nil
	},
}

var pluginInstallCmd = &cobra.Command{
	Use:   "install [package]",
	Short: "Install a package from the bundle directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp(cmd)
		mgr, err := a.plugins()
		if err != nil {
			return err
		}
		name := packageArg(args)

		result, err := mgr.Install(cmd.Context(), name)
		if err != nil {
			return err
		}
		if result.Skipped {
			a.out.Info("%s is already installed", name)
			return nil
		}
		a.out.Success("Installed %s into %s (%d files)", name, result.Path, len(result.Files))
		if result.SettingsPath != "" {
			a.out.Info("%s is disabled by default; projects enable it in their settings (%s)", name, result.SettingsPath)
		}
		return nil
	},
}

var pluginFetchCmd = &cobra.Command{
	Use:   "fetch [package]",
	Short: "Download a package archive into the bundle directory",
	Long: `Download <package>.sublime-package from a GitHub release of the repository
set with:

  sublimeavr config set bundle_repo <owner/name>

The download is checked against the release's checksums.txt when present.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp(cmd)
		if a.values.BundleRepo == "" {
			return fmt.Errorf("no release repository configured; run `%s config set %s <owner/name>`",
				branding.CLIName(), config.KeyBundleRepo)
		}
		name := packageArg(args)

		var opts []updater.Option
		opts = append(opts, updater.WithProgress(cmd.ErrOrStderr()))
		if a.values.BundleMirror != "" {
			opts = append(opts, updater.WithMirror(a.values.BundleMirror))
		}
		u := updater.New(a.values.BundleRepo, opts...)

		bundleDir := userdata.GetBundleDir(a.values.BundleDir)
		result, err := u.Fetch(cmd.Context(), name+extension.ArchiveExt, bundleDir,
			updater.FetchOptions{Tag: fetchTag, Force: fetchForce})
		if err != nil {
			return err
		}
		if result.Skipped {
			a.out.Info("%s %s is already bundled", name, result.Version)
			return nil
		}
		if result.Previous != "" {
			a.out.Success("Updated %s %s -> %s", name, result.Previous, result.Version)
		} else {
			a.out.Success("Fetched %s %s", name, result.Version)
		}
		a.out.Box("Bundle",
			"repository  "+u.Repo(),
			"release     "+result.Version,
			"archive     "+result.Path,
			"",
			"Run '"+branding.CLIName()+" plugin install' to install it.",
		)
		return nil
	},
}

func packageArg(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return branding.CompanionPackage()
}

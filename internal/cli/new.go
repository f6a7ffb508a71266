package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Merlinas/SublimeAVR/internal/branding"
	"github.com/Merlinas/SublimeAVR/internal/config"
	"github.com/Merlinas/SublimeAVR/internal/ctxlog"
	"github.com/Merlinas/SublimeAVR/internal/project"
	"github.com/Merlinas/SublimeAVR/internal/scaffold"
	"github.com/Merlinas/SublimeAVR/internal/toolchain"
	"github.com/spf13/cobra"
)

type newOptions struct {
	mcu        string
	template   string
	cStd       string
	cxxStd     string
	optimize   string
	yes        bool
	dryRun     bool
	skipPlugin bool
}

var newOpts newOptions

var newCmd = &cobra.Command{
	Use:   "new [folder]",
	Short: "Create or update an AVR project",
	Long: `Create a new project from a template, or update the project file of an
existing one.

The command locates avr-gcc, installs the ` + branding.CompanionPackage() + ` package if needed,
then asks for the device, the project folder and, for new projects, a template.
If the folder already holds ` + branding.ProjectFile() + `, only its build
environment and compiler options are refreshed; everything else in the file is
kept as is.

Examples:
  sublimeavr new
  sublimeavr new ~/avr/blink --mcu atmega328p --template "Blink LED"
  sublimeavr new . --mcu attiny85 --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folder := ""
		if len(args) == 1 {
			folder = args[0]
		}
		a := newApp(cmd)
		err := a.newProject(cmd.Context(), folder, newOpts)
		if errors.Is(err, errCancelled) {
			a.out.Info("Cancelled")
			return nil
		}
		return err
	},
}

func init() {
	f := newCmd.Flags()
	f.StringVar(&newOpts.mcu, "mcu", "", "Target device, e.g. atmega328p (default: ask)")
	f.StringVarP(&newOpts.template, "template", "t", "", "Template name for new projects (default: ask)")
	f.StringVar(&newOpts.cStd, "c-std", "", "C language standard (default: config c_std)")
	f.StringVar(&newOpts.cxxStd, "cpp-std", "", "C++ language standard (default: config cpp_std)")
	f.StringVarP(&newOpts.optimize, "optimize", "O", "", "Optimization level (default: config optimize)")
	f.BoolVarP(&newOpts.yes, "yes", "y", false, "Answer yes to confirmations and use configured defaults")
	f.BoolVar(&newOpts.dryRun, "dry-run", false, "Show the project file changes without writing anything")
	f.BoolVar(&newOpts.skipPlugin, "skip-plugin", false, "Do not install "+branding.CompanionPackage())
	rootCmd.AddCommand(newCmd)
}

// newProject runs the interactive create/update flow. It returns
// errCancelled when the user backs out at any prompt.
func (a *app) newProject(ctx context.Context, folder string, opts newOptions) error {
	log := ctxlog.FromContext(ctx)

	location, err := a.locate()
	if err != nil {
		return err
	}
	log.Debug("toolchain located", "location", location)

	if !opts.skipPlugin && !opts.dryRun {
		if err := a.installCompanion(ctx); err != nil {
			return err
		}
	}

	probe := a.probe(location)
	mcu, err := a.resolveDevice(ctx, probe, opts)
	if err != nil {
		return err
	}

	dest, err := a.resolveFolder(folder, opts)
	if err != nil {
		return err
	}

	settings := project.Settings{
		MCU:        mcu,
		CStd:       firstNonEmpty(opts.cStd, a.values.CStd),
		CXXStd:     firstNonEmpty(opts.cxxStd, a.values.CXXStd),
		Optimize:   firstNonEmpty(opts.optimize, a.values.Optimize),
		Location:   location,
		Path:       a.values.Path,
		Programmer: a.values.Programmer,
		Dest:       dest,
	}
	builder, err := a.builder(probe)
	if err != nil {
		return err
	}
	merger := &project.Merger{Builder: builder}

	if opts.dryRun {
		return a.planProject(ctx, merger, settings)
	}

	isNew, err := a.prepareFolder(dest, opts)
	if err != nil {
		return err
	}
	if isNew {
		if err := a.applyTemplate(dest, opts); err != nil {
			return err
		}
	}

	result, err := merger.Save(ctx, settings)
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		a.out.Warning("%s", w)
	}

	verb := "updated"
	if isNew {
		verb = "created"
	}
	a.out.Success("Project %s in '%s'", verb, dest)
	a.out.KeyValues([][2]string{
		{"device", mcu},
		{"project file", result.Path},
	})
	return nil
}

// installCompanion installs the completion package unless present.
func (a *app) installCompanion(ctx context.Context) error {
	mgr, err := a.plugins()
	if err != nil {
		return err
	}
	name := branding.CompanionPackage()
	if mgr.IsInstalled(name) {
		return nil
	}

	spin := a.out.StartSpinner(fmt.Sprintf("Installing the dependency package, %s...", name))
	if _, err := mgr.Install(ctx, name); err != nil {
		spin.Fail(fmt.Sprintf("Installing the dependency package, %s... Failed.", name))
		return fmt.Errorf("%w (use --skip-plugin to continue without it)", err)
	}
	spin.Success(fmt.Sprintf("Installing the dependency package, %s... Ok.", name))
	return nil
}

// resolveDevice returns the --mcu flag, or asks from the compiler's device
// list. Without a device list the name is typed in.
func (a *app) resolveDevice(ctx context.Context, probe *toolchain.Probe, opts newOptions) (string, error) {
	if opts.mcu != "" {
		return opts.mcu, nil
	}
	if opts.yes && a.values.MCU != "" {
		return a.values.MCU, nil
	}

	devices := probe.Devices(ctx)
	if len(devices.Devices) == 0 {
		a.out.Warning("%s reported no devices", toolchain.AssemblerName)
		mcu, err := a.prompt.input("Device (MCU)", a.values.MCU)
		if err != nil {
			return "", err
		}
		if mcu == "" {
			return "", errCancelled
		}
		return mcu, nil
	}

	idx, err := a.prompt.selectFromList("Select device (MCU):", devices.Devices)
	if err != nil {
		return "", err
	}
	return devices.Devices[idx], nil
}

// resolveFolder returns the project folder from the argument or a prompt
// prefilled with the configured workdir.
func (a *app) resolveFolder(folder string, opts newOptions) (string, error) {
	if folder == "" {
		if opts.yes {
			return "", errors.New("a project folder is required with --yes")
		}
		var err error
		folder, err = a.prompt.input("Create/Update project in folder", a.values.Workdir)
		if err != nil {
			return "", err
		}
	}
	folder = config.ExpandHome(folder)
	abs, err := filepath.Abs(folder)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", folder, err)
	}
	return abs, nil
}

// prepareFolder creates dest or confirms reuse of an existing folder. It
// reports whether a template should be applied.
func (a *app) prepareFolder(dest string, opts newOptions) (bool, error) {
	created, err := scaffold.PrepareDir(dest)
	if err != nil {
		return false, err
	}
	if created {
		return true, nil
	}

	isNew := !project.Exists(dest)
	question := fmt.Sprintf("%s project found in %q. Do you want to update it?", branding.DisplayName(), dest)
	if isNew {
		question = fmt.Sprintf("Location %q already exists. Still want to start a %s project there?", dest, branding.DisplayName())
	}
	if opts.yes {
		return isNew, nil
	}
	ok, err := a.prompt.confirm(question)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, errCancelled
	}
	return isNew, nil
}

// applyTemplate extracts the chosen template into dest. Backing out of the
// choice or a failed extraction removes dest again if it is still empty.
func (a *app) applyTemplate(dest string, opts newOptions) error {
	templates, err := scaffold.List(a.values.TemplatesDir)
	if err != nil {
		a.cleanup(dest)
		return err
	}
	if len(templates) == 0 {
		a.cleanup(dest)
		return fmt.Errorf("cannot find a single template in %s", a.values.TemplatesDir)
	}

	var tmpl scaffold.Template
	if opts.template != "" {
		tmpl, err = scaffold.Find(templates, opts.template)
		if err != nil {
			a.cleanup(dest)
			return err
		}
	} else {
		idx, err := a.prompt.selectFromList("Select template:", scaffold.Names(templates))
		if err != nil {
			a.cleanup(dest)
			return err
		}
		tmpl = templates[idx]
	}

	if _, err := scaffold.Extract(tmpl, dest); err != nil {
		a.cleanup(dest)
		return fmt.Errorf("could not extract the template %q: %w", tmpl.Name, err)
	}
	return nil
}

func (a *app) cleanup(dest string) {
	if removed, err := scaffold.RemoveIfEmpty(dest); err == nil && removed {
		a.errOut.Info("Removed empty folder %s", dest)
	}
}

// planProject prints the change Save would make.
func (a *app) planProject(ctx context.Context, merger *project.Merger, s project.Settings) error {
	result, err := merger.Plan(ctx, s)
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		a.out.Warning("%s", w)
	}

	switch {
	case result.Before == nil:
		a.out.Info("Would create %s", result.Path)
	case !result.Changed():
		a.out.Info("%s is up to date", result.Path)
		return nil
	default:
		a.out.Info("Would update %s", result.Path)
	}
	fmt.Fprint(a.out.Writer(), project.Diff(result.Before, result.After))
	if _, err := os.Stat(s.Dest); os.IsNotExist(err) {
		a.out.Info("Folder %s does not exist yet; a template would be asked for", s.Dest)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

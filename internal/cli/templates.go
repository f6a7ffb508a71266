package cli

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/Merlinas/SublimeAVR/internal/scaffold"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(templatesCmd)
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List project templates",
	Long: `List the templates offered by new. Templates are the *.zip files in the
configured templates_dir, or the built-in set when it is not configured.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp(cmd)
		templates, err := scaffold.List(a.values.TemplatesDir)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tSOURCE")
		for _, t := range templates {
			source := "built-in"
			if !t.Bundled() {
				source = filepath.Join(t.Dir, t.File)
			}
			fmt.Fprintf(w, "%s\t%s\n", t.Name, source)
		}
		return w.Flush()
	},
}

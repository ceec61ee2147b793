package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ferntree/secrets/internal/ui"
	"github.com/ferntree/secrets/internal/workflows"
)

var (
	templateWrite bool

	templateCmd = &cobra.Command{
		Use:   "template",
		Short: "Print the store's keys and comments with values withheld",
		Long: `Renders a skeleton of the store: every comment and key survives, every
value is stripped. The result documents what the store contains and is
safe to commit next to the encrypted artifact.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			Logger.Infof("Starting template command")

			result, err := workflows.Template(cmd.Context(), workflows.TemplateOptions{
				Settings: settings,
				Write:    templateWrite,
			})
			if err != nil {
				return reportError(err)
			}

			if templateWrite {
				fmt.Fprintln(os.Stderr, ui.Success.Sprint("✓")+" Template written to "+ui.Path.Sprint(result.Path))
				return nil
			}
			fmt.Print(result.Content)
			return nil
		},
	}
)

func init() {
	templateCmd.Flags().BoolVar(&templateWrite, "write", false, "write the template next to the store instead of printing it")
}

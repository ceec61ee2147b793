package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ferntree/secrets/internal/ui"
	"github.com/ferntree/secrets/internal/workflows"
)

var (
	logLimit int

	logCmd = &cobra.Command{
		Use:   "log",
		Short: "Show the audit log of mutating operations",
		Long: `Prints the recorded operations, oldest first. The audit log holds
operation metadata only; key names and values are never recorded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := workflows.Log(cmd.Context(), workflows.LogOptions{
				Settings: settings,
				Limit:    logLimit,
			})
			if err != nil {
				return reportError(err)
			}

			if len(entries) == 0 {
				fmt.Fprintln(os.Stderr, ui.Muted.Sprint("No audit entries yet"))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, e := range entries {
				detail := ""
				switch {
				case e.Recipient != "":
					detail = e.Recipient
				case len(e.Files) > 0:
					detail = strings.Join(e.Files, ", ")
				case e.Message != "":
					detail = e.Message
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.Timestamp, e.Operation, detail)
			}
			if err := w.Flush(); err != nil {
				return Logger.ErrorfAndReturn("failed to write audit log: %v", err)
			}
			return nil
		},
	}
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "limit", "n", 0, "show only the newest N entries")
}

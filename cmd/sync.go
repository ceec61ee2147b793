package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ferntree/secrets/internal/ui"
	"github.com/ferntree/secrets/internal/workflows"
)

var (
	syncMessage string

	syncCmd = &cobra.Command{
		Use:   "sync",
		Short: "Commit the encrypted store and its metadata to git",
		Long: `Stages and commits the encrypted artifact, the recipient manifest, and
the template in the git repository containing the store directory. Push
and pull stay ordinary git operations you run yourself.

Only ciphertext and metadata are ever committed; the identity file lives
outside the store directory and plaintext never touches the repository.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			Logger.Infof("Starting sync command")
			spinner, cleanup := startSpinner("Committing store...")
			defer cleanup()

			result, err := workflows.Sync(cmd.Context(), workflows.SyncOptions{
				Settings: settings,
				Message:  syncMessage,
			})
			if err != nil {
				return failSpinner(spinner, err)
			}

			if !result.Committed {
				spinner.FinalMSG = ui.Muted.Sprint("Nothing to commit, store unchanged")
				return nil
			}

			spinner.FinalMSG = ui.Success.Sprint("✓") + " Committed " + ui.Highlight.Sprint(result.Hash) + "\n" +
				ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("git push") + " in the store directory to distribute it"
			return nil
		},
	}
)

func init() {
	syncCmd.Flags().StringVarP(&syncMessage, "message", "m", "", "commit message (default: Update encrypted secrets)")
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ferntree/secrets/internal/ui"
	"github.com/ferntree/secrets/internal/workflows"
)

var rotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Replace this device's identity and re-encrypt the store",
	Long: `Generates a fresh identity for this device, swaps its public key in the
recipient manifest, and re-encrypts the store. The old identity file is
kept as a timestamped backup until you delete it.

Rotation does not change the secret values. Copies of the store encrypted
for the old key remain readable by the backup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting rotate command")
		spinner, cleanup := startSpinner("Rotating identity...")
		defer cleanup()

		result, err := workflows.Rotate(cmd.Context(), workflows.RotateOptions{Settings: settings})
		if err != nil {
			return failSpinner(spinner, err)
		}

		msg := ui.Success.Sprint("✓") + " Identity rotated\n" +
			"  New public key: " + ui.Highlight.Sprint(result.PublicKey) + "\n" +
			"  Old identity:   " + ui.Path.Sprint(result.BackupPath) + " " + ui.Muted.Sprint("delete once the new key is proven") + "\n"
		if result.StoreReEncrypted {
			msg += ui.Info.Sprint("→") + " Store re-encrypted. Run " + ui.Code.Sprint("secrets sync") + " to share it"
		} else {
			msg += ui.Muted.Sprint("No store to re-encrypt")
		}
		spinner.FinalMSG = msg
		return nil
	},
}

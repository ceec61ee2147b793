package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ferntree/secrets/internal/ui"
	"github.com/ferntree/secrets/internal/workflows"
)

var (
	initDeviceName string
	initForce      bool

	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Generate a device identity and create the encrypted store",
		Long: `Generates an age identity for this device, registers its public key in
the recipient manifest, and seeds an encrypted starter store when none
exists yet. The private identity stays outside the store directory and
must never be committed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			Logger.Infof("Starting init command")
			spinner, cleanup := startSpinner("Initializing...")
			defer cleanup()

			result, err := workflows.Init(cmd.Context(), workflows.InitOptions{
				Settings:   settings,
				DeviceName: initDeviceName,
				Force:      initForce,
			})
			if err != nil {
				return failSpinner(spinner, err)
			}

			msg := ui.Success.Sprint("✓") + " Initialized as " + ui.Highlight.Sprint(result.DeviceName) + "\n" +
				"  Public key: " + ui.Highlight.Sprint(result.PublicKey) + "\n" +
				"  Identity:   " + ui.Path.Sprint(result.IdentityPath) + " " + ui.Muted.Sprint("keep this file private") + "\n"
			if result.BackupPath != "" {
				msg += "  Old key:    " + ui.Path.Sprint(result.BackupPath) + " " + ui.Muted.Sprint("delete once the new key is proven") + "\n"
			}
			if result.StoreCreated {
				msg += ui.Info.Sprint("→") + " Created an empty store. Run " + ui.Code.Sprint("secrets edit") + " to add entries"
			} else {
				msg += ui.Info.Sprint("→") + " An existing store was kept as is"
			}
			spinner.FinalMSG = msg
			return nil
		},
	}
)

func init() {
	initCmd.Flags().StringVar(&initDeviceName, "name", "", "device name for the recipient manifest (default: hostname)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "replace an existing identity (the old key is backed up and the store re-sealed)")
}

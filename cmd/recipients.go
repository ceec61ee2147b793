package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ferntree/secrets/internal/ui"
	"github.com/ferntree/secrets/internal/workflows"
)

var recipientsCmd = &cobra.Command{
	Use:   "recipients",
	Short: "Manage who can decrypt the store",
	Long: `The recipient manifest lists every public key the store is encrypted for.
Adding or removing a recipient re-encrypts the store for the new set.

Removal is not retroactive: copies of the store that were already synced
remain readable by the removed key.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRecipientsList(cmd)
	},
}

var recipientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the recipients in the manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRecipientsList(cmd)
	},
}

var recipientsAddCmd = &cobra.Command{
	Use:   "add NAME PUBLIC_KEY",
	Short: "Grant a device access by its age public key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting recipients add command")
		spinner, cleanup := startSpinner("Adding recipient and re-encrypting...")
		defer cleanup()

		result, err := workflows.RecipientAdd(cmd.Context(), workflows.RecipientOptions{Settings: settings}, args[0], args[1])
		if err != nil {
			return failSpinner(spinner, err)
		}

		msg := ui.Success.Sprint("✓") + " Added " + ui.Highlight.Sprint(result.Entry.Name) +
			fmt.Sprintf(" (%d recipients)", result.RecipientCount)
		if result.StoreReEncrypted {
			msg += "\n" + ui.Info.Sprint("→") + " Store re-encrypted. Run " + ui.Code.Sprint("secrets sync") + " to share it"
		}
		spinner.FinalMSG = msg
		return nil
	},
}

var recipientsRemoveCmd = &cobra.Command{
	Use:   "remove NAME",
	Short: "Revoke a device's access to future store versions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting recipients remove command")
		spinner, cleanup := startSpinner("Removing recipient and re-encrypting...")
		defer cleanup()

		result, err := workflows.RecipientRemove(cmd.Context(), workflows.RecipientOptions{Settings: settings}, args[0])
		if err != nil {
			return failSpinner(spinner, err)
		}

		spinner.FinalMSG = ui.Success.Sprint("✓") + " Removed " + ui.Highlight.Sprint(result.Entry.Name) +
			fmt.Sprintf(" (%d recipients)", result.RecipientCount) + "\n" +
			ui.Warning.Sprint("!") + " " + result.Warning
		return nil
	},
}

func runRecipientsList(cmd *cobra.Command) error {
	entries, err := workflows.Recipients(cmd.Context(), workflows.RecipientOptions{Settings: settings})
	if err != nil {
		return reportError(err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, ui.Muted.Sprint("No recipients yet. Run 'secrets init' first"))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, e.PublicKey, e.AddedAt.Format("2006-01-02"))
	}
	if err := w.Flush(); err != nil {
		return Logger.ErrorfAndReturn("failed to write recipient list: %v", err)
	}
	return nil
}

func init() {
	recipientsCmd.AddCommand(recipientsListCmd)
	recipientsCmd.AddCommand(recipientsAddCmd)
	recipientsCmd.AddCommand(recipientsRemoveCmd)
}

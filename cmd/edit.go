package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	kerrors "github.com/ferntree/secrets/internal/errors"
	"github.com/ferntree/secrets/internal/ui"
	"github.com/ferntree/secrets/internal/vault"
	"github.com/ferntree/secrets/internal/workflows"
)

var (
	editNoSync bool

	editCmd = &cobra.Command{
		Use:   "edit",
		Short: "Edit the store in your editor, then re-encrypt it",
		Long: `Decrypts the store into a private scratch file, opens your editor on it,
validates the result, and re-encrypts it for the current recipient set.
The scratch file is removed when the session ends, even on interrupt.

When the store directory is a git repository, a change is committed
afterwards unless --no-sync is given.

The editor comes from SECRETS_EDITOR, then EDITOR, then vi.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			Logger.Infof("Starting edit command")

			if mode, tooOpen := vault.CheckIdentityPermissions(settings.IdentityPath); tooOpen {
				Logger.WarnfAlways("Identity file has overly permissive permissions (%o), consider running 'chmod 600 %s'",
					mode, settings.IdentityPath)
			}

			// No spinner here: the editor owns the terminal.
			result, err := workflows.Edit(cmd.Context(), workflows.EditOptions{Settings: settings})
			if err != nil {
				return reportError(err)
			}

			switch {
			case result.Created:
				fmt.Fprintln(os.Stderr, ui.Success.Sprint("✓")+" Store created and encrypted")
			case result.Changed:
				fmt.Fprintln(os.Stderr, ui.Success.Sprint("✓")+" Store updated and re-encrypted")
			default:
				fmt.Fprintln(os.Stderr, ui.Muted.Sprint("No changes, store left untouched"))
				return nil
			}

			if editNoSync {
				return nil
			}

			sres, err := workflows.Sync(cmd.Context(), workflows.SyncOptions{Settings: settings})
			if errors.Is(err, kerrors.ErrNotARepository) {
				Logger.Debugf("Store directory is not a repository, skipping commit")
				return nil
			}
			if err != nil {
				return reportError(err)
			}
			if sres.Committed {
				fmt.Fprintln(os.Stderr, ui.Success.Sprint("✓")+" Committed "+ui.Highlight.Sprint(sres.Hash))
			}
			return nil
		},
	}
)

func init() {
	editCmd.Flags().BoolVar(&editNoSync, "no-sync", false, "skip the git commit after a change")
}

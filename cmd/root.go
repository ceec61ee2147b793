package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ferntree/secrets/internal/config"
	logger "github.com/ferntree/secrets/internal/logging"
	"github.com/ferntree/secrets/internal/ui"
	"github.com/ferntree/secrets/internal/workflows"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	settings config.Settings

	listFlag    bool
	exportFlag  bool
	shellFlag   bool
	decryptFlag bool
	encryptArgs []string

	rootCmd = &cobra.Command{
		Use:   "secrets [KEY]",
		Short: "Encrypted key-value store for credentials, versioned with git",
		Long: `secrets keeps your credentials in a single encrypted file and prints
them on demand. The store is a plain KEY=value file encrypted with age;
git handles history and distribution between devices.

Plaintext only ever exists on stdout or inside a scoped edit session.

Examples:
  secrets DATABASE_URL          print one value
  secrets --list                list the keys, values withheld
  secrets --export > .env       write a plaintext env file
  eval "$(secrets -s)"          load everything into the current shell
  secrets --encrypt "*.env"     seal standalone env files
  secrets edit                  open the store in your editor`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			Logger = logger.Logger{Verbose: verbose, Debug: debug}

			s, err := config.Load()
			if err != nil {
				return Logger.ErrorfAndReturn("failed to load configuration: %v", err)
			}
			settings = s
			Logger.Debugf("Store: %s", settings.StorePath)
			Logger.Debugf("Identity: %s", settings.IdentityPath)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if len(args) == 1 && (listFlag || exportFlag || shellFlag || decryptFlag || len(encryptArgs) > 0) {
				return reportError(fmt.Errorf("a KEY argument cannot be combined with an output flag"))
			}

			if len(encryptArgs) > 0 {
				return runEncrypt(cmd, encryptArgs)
			}

			opts := workflows.ReadOptions{Settings: settings}

			switch {
			case listFlag:
				keys, err := workflows.List(ctx, opts)
				if err != nil {
					return reportError(err)
				}
				for _, k := range keys {
					fmt.Println(k)
				}
				return nil

			case exportFlag:
				out, err := workflows.Export(ctx, opts)
				if err != nil {
					return reportError(err)
				}
				fmt.Print(out)
				return nil

			case shellFlag:
				out, err := workflows.ShellSource(ctx, opts)
				if err != nil {
					return reportError(err)
				}
				fmt.Print(out)
				return nil

			case decryptFlag:
				out, err := workflows.Decrypt(ctx, opts)
				if err != nil {
					return reportError(err)
				}
				_, _ = os.Stdout.Write(out)
				return nil

			case len(args) == 1:
				value, err := workflows.Lookup(ctx, opts, args[0])
				if err != nil {
					return reportError(err)
				}
				fmt.Println(value)
				return nil
			}

			return cmd.Help()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	rootCmd.Flags().BoolVar(&listFlag, "list", false, "list keys, values withheld")
	rootCmd.Flags().BoolVar(&exportFlag, "export", false, "print every entry as KEY=value")
	rootCmd.Flags().BoolVarP(&shellFlag, "shell", "s", false, "print shell-evaluable export statements")
	rootCmd.Flags().BoolVar(&decryptFlag, "decrypt", false, "print the raw decrypted store, comments included")
	rootCmd.Flags().StringArrayVar(&encryptArgs, "encrypt", nil, "encrypt the given files, globs, or directories")
	rootCmd.MarkFlagsMutuallyExclusive("list", "export", "shell", "decrypt", "encrypt")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(recipientsCmd)
	rootCmd.AddCommand(rotateCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(syncCmd)
}

// runEncrypt seals standalone env files for the configured recipient set.
func runEncrypt(cmd *cobra.Command, patterns []string) error {
	spinner, cleanup := startSpinner("Encrypting files...")
	defer cleanup()

	result, err := workflows.EncryptFiles(cmd.Context(), workflows.EncryptOptions{
		Settings: settings,
		Patterns: patterns,
	})
	if err != nil {
		return failSpinner(spinner, err)
	}

	spinner.FinalMSG = ui.Success.Sprint("✓") + fmt.Sprintf(" Encrypted %d file(s):\n  ", len(result.EncryptedFiles)) +
		strings.Join(result.EncryptedFiles, "\n  ") + "\n" +
		ui.Info.Sprint("→") + " The " + ui.Path.Sprint(config.EncryptedExt) + " outputs are safe to commit"
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

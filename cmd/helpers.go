package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/briandowns/spinner"

	kerrors "github.com/ferntree/secrets/internal/errors"
	"github.com/ferntree/secrets/internal/ui"
)

// ErrReported signals main that the failure was already printed with its
// remedy; main should exit nonzero without printing again.
var ErrReported = errors.New("reported")

// startSpinner creates and starts a spinner with the given message when not
// in verbose or debug mode. Returns the spinner and a function that should
// be deferred to clean up.
//
// Spinner FinalMSG values do NOT need trailing newlines. The cleanup
// function calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		// Continue without a colored spinner.
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	if !verbose && !debug {
		s.Start()
		// Discard stray log output while the spinner owns the line.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if !verbose && !debug {
			log.SetOutput(os.Stderr)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if !verbose && !debug {
			s.Stop()
		}

		// Final messages go to stderr; stdout is reserved for secret output.
		if finalMsg != "" {
			fmt.Fprint(os.Stderr, finalMsg)
		}
	}

	return s, cleanup
}

// remedy maps a sentinel failure to a next-step hint for the user.
func remedy(err error) string {
	switch {
	case errors.Is(err, kerrors.ErrStoreNotFound):
		return ui.Info.Sprint("→") + " No store found. Run " + ui.Code.Sprint("secrets init") + " first"
	case errors.Is(err, kerrors.ErrIdentityNotFound):
		return ui.Info.Sprint("→") + " No identity on this device. Run " + ui.Code.Sprint("secrets init") + " to create one"
	case errors.Is(err, kerrors.ErrIdentityExists):
		return ui.Info.Sprint("→") + " An identity already exists. Pass " + ui.Code.Sprint("--force") + " to replace it"
	case errors.Is(err, kerrors.ErrNoMatchingIdentity):
		return ui.Info.Sprint("→") + " This device's key cannot open the store. Ask a device with access to run " +
			ui.Code.Sprint("secrets recipients add") + " with this device's public key"
	case errors.Is(err, kerrors.ErrKeyNotFound):
		return ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("secrets --list") + " to see the available keys"
	case errors.Is(err, kerrors.ErrDuplicateKey), errors.Is(err, kerrors.ErrMalformedEntry):
		return ui.Info.Sprint("→") + " Fix the offending line and retry. The store was not modified"
	case errors.Is(err, kerrors.ErrNotARepository):
		return ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("git init") + " in the store directory to enable sync"
	case errors.Is(err, kerrors.ErrNoRecipients):
		return ui.Info.Sprint("→") + " At least one recipient must keep access to the store"
	case errors.Is(err, kerrors.ErrEditorFailed):
		return ui.Info.Sprint("→") + " Set " + ui.Code.Sprint("SECRETS_EDITOR") + " or " + ui.Code.Sprint("EDITOR") + " to a working editor"
	}
	return ""
}

// reportError prints the failure and its remedy to stderr and returns
// ErrReported so the exit code is nonzero without double printing.
func reportError(err error) error {
	fmt.Fprintln(os.Stderr, ui.Error.Sprint("✗")+" "+err.Error())
	if r := remedy(err); r != "" {
		fmt.Fprintln(os.Stderr, r)
	}
	return ErrReported
}

// failSpinner records the failure as the spinner's final message and
// returns ErrReported.
func failSpinner(s *spinner.Spinner, err error) error {
	msg := ui.Error.Sprint("✗") + " " + err.Error()
	if r := remedy(err); r != "" {
		msg += "\n" + r
	}
	s.FinalMSG = msg
	return ErrReported
}

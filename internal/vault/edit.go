package vault

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ferntree/secrets/internal/config"
	kerrors "github.com/ferntree/secrets/internal/errors"
	"github.com/ferntree/secrets/internal/store"
)

// starterContent seeds a brand-new store when neither an artifact nor a
// template exists yet.
const starterContent = "# One secret per line, KEY=value.\n# Lines starting with '#' are comments.\n"

// EditResult reports what the edit session did.
type EditResult struct {
	// Changed is false when the editor exited without modifying the content,
	// in which case the artifact was not rewritten.
	Changed bool

	// Created is true when this session created the store for the first time.
	Created bool
}

// EditStore runs the scoped-plaintext edit protocol:
//
//  1. Decrypt the store into a freshly created, randomly named temporary
//     directory with owner-only permissions.
//  2. Hand control to the interactive editor.
//  3. Validate the result strictly and re-encrypt to a separate path,
//     atomically replacing the original only on full success.
//  4. Remove the temporary plaintext unconditionally, on every exit path
//     including SIGINT/SIGTERM while the editor is open.
//
// A validation or encryption failure leaves the original artifact intact.
func EditStore(ctx context.Context, s config.Settings, argv []string) (*EditResult, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("no editor configured")
	}

	result := &EditResult{}

	original, err := ReadStore(s)
	if errors.Is(err, kerrors.ErrStoreNotFound) {
		original, result.Created = starterPlaintext(s)
	} else if err != nil {
		return nil, err
	}

	// Owner-only scratch directory; the random name keeps the plaintext
	// location unpredictable.
	tmpDir, err := os.MkdirTemp("", "secrets-edit-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary directory: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }

	// Cleanup must also run if the process is interrupted while the editor
	// has control; a leaked temp file is plaintext at rest.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		select {
		case <-sigs:
			cleanup()
			os.Exit(130)
		case <-done:
		}
	}()
	defer func() {
		signal.Stop(sigs)
		close(done)
		cleanup()
	}()

	tmpPath := filepath.Join(tmpDir, "secrets.env")
	if err := os.WriteFile(tmpPath, original, 0600); err != nil {
		return nil, fmt.Errorf("failed to write temporary plaintext: %w", err)
	}

	if err := runEditor(ctx, argv, tmpPath); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read edited content: %w", err)
	}

	if bytes.Equal(edited, original) && !result.Created {
		return result, nil
	}

	if err := store.Validate(edited); err != nil {
		return nil, fmt.Errorf("edited content rejected, store left unchanged: %w", err)
	}

	if err := WriteStore(s, edited); err != nil {
		return nil, err
	}
	result.Changed = true

	return result, nil
}

// starterPlaintext returns the initial content for a store that does not
// exist yet: the template when one is present, a commented header otherwise.
func starterPlaintext(s config.Settings) ([]byte, bool) {
	if data, err := os.ReadFile(s.TemplatePath); err == nil {
		return data, true
	}
	return []byte(starterContent), true
}

func runEditor(ctx context.Context, argv []string, path string) error {
	// #nosec G204 -- the editor command comes from the user's own config.
	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrEditorFailed, err)
	}
	return nil
}

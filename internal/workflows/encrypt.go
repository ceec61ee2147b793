package workflows

import (
	"context"
	"fmt"
	"os"

	"github.com/ferntree/secrets/internal/audit"
	"github.com/ferntree/secrets/internal/config"
	"github.com/ferntree/secrets/internal/store"
	"github.com/ferntree/secrets/internal/vault"
)

// EncryptOptions configures the encrypt operation.
type EncryptOptions struct {
	Settings config.Settings

	// Patterns are the files, globs, or directories to encrypt, resolved
	// relative to BaseDir.
	Patterns []string

	// BaseDir anchors relative patterns; usually the working directory.
	BaseDir string
}

// EncryptResult contains the outcome of an encrypt operation.
type EncryptResult struct {
	// SourceFiles lists the plaintext inputs.
	SourceFiles []string

	// EncryptedFiles lists the ciphertext outputs, parallel to SourceFiles.
	EncryptedFiles []string
}

// EncryptFiles seals each matched plaintext file for the configured
// recipient set, writing the encrypted extension alongside. Inputs are
// validated against the strict store format first, so duplicate keys and
// malformed lines are rejected at encrypt time rather than discovered on
// some other device later.
//
// Fails with ErrIdentityNotFound when no recipients are configured and no
// local identity exists to fall back to.
func EncryptFiles(_ context.Context, opts EncryptOptions) (*EncryptResult, error) {
	baseDir := opts.BaseDir
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		baseDir = wd
	}

	files, err := vault.ResolveEncryptInputs(opts.Patterns, baseDir)
	if err != nil {
		return nil, err
	}

	recipients, err := vault.EncryptionRecipients(opts.Settings)
	if err != nil {
		return nil, err
	}

	// Validate everything before writing anything.
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f, err)
		}
		if err := store.Validate(data); err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
	}

	result := &EncryptResult{SourceFiles: files}
	for _, f := range files {
		outPath, err := vault.EncryptFile(f, recipients)
		if err != nil {
			return nil, err
		}
		result.EncryptedFiles = append(result.EncryptedFiles, outPath)
	}

	entry := audit.New("encrypt")
	entry.Files = result.EncryptedFiles
	audit.Log(opts.Settings.AuditPath, entry)

	return result, nil
}

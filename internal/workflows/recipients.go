package workflows

import (
	"context"
	"errors"

	"github.com/ferntree/secrets/internal/audit"
	"github.com/ferntree/secrets/internal/config"
	kerrors "github.com/ferntree/secrets/internal/errors"
	"github.com/ferntree/secrets/internal/vault"
)

// RemovalWarning is surfaced whenever a recipient is removed. Re-encryption
// only protects future versions: every previously distributed copy of the
// artifact remains decryptable by the removed party until deleted
// everywhere. This is inherent to at-rest recipient encryption and must be
// communicated, not hidden.
const RemovalWarning = "previously synced copies of the store remain readable by the removed recipient; rotate the secret values themselves if that matters"

// RecipientOptions configures recipient operations.
type RecipientOptions struct {
	Settings config.Settings
}

// Recipients returns the manifest entries.
func Recipients(_ context.Context, opts RecipientOptions) ([]vault.RecipientEntry, error) {
	manifest, err := vault.LoadManifest(opts.Settings.ManifestPath)
	if err != nil {
		return nil, err
	}
	return manifest.Recipients, nil
}

// RecipientChangeResult contains the outcome of an add or remove.
type RecipientChangeResult struct {
	// Entry is the recipient that was added or removed.
	Entry vault.RecipientEntry

	// RecipientCount is the manifest size after the change.
	RecipientCount int

	// StoreReEncrypted reports whether the artifact was re-sealed for the
	// new set. False when no store exists yet.
	StoreReEncrypted bool

	// Warning carries the removal caveat; empty on add.
	Warning string
}

// RecipientAdd registers a new public key in the manifest and re-encrypts
// the store so the new recipient can decrypt it.
func RecipientAdd(ctx context.Context, opts RecipientOptions, name, publicKey string) (*RecipientChangeResult, error) {
	manifest, err := vault.LoadManifest(opts.Settings.ManifestPath)
	if err != nil {
		return nil, err
	}

	entry, err := manifest.Add(name, publicKey)
	if err != nil {
		return nil, err
	}

	reEncrypted, err := reEncryptForManifest(opts.Settings, manifest)
	if err != nil {
		return nil, err
	}

	if err := vault.SaveManifest(opts.Settings.ManifestPath, manifest); err != nil {
		return nil, err
	}

	auditEntry := audit.New("recipient-add")
	auditEntry.Recipient = name
	auditEntry.Count = len(manifest.Recipients)
	audit.Log(opts.Settings.AuditPath, auditEntry)

	return &RecipientChangeResult{
		Entry:            entry,
		RecipientCount:   len(manifest.Recipients),
		StoreReEncrypted: reEncrypted,
	}, nil
}

// RecipientRemove prunes a recipient from the manifest and re-encrypts the
// store for the remaining set. The result carries RemovalWarning because
// removal is not retroactive.
func RecipientRemove(ctx context.Context, opts RecipientOptions, name string) (*RecipientChangeResult, error) {
	manifest, err := vault.LoadManifest(opts.Settings.ManifestPath)
	if err != nil {
		return nil, err
	}

	entry, err := manifest.Remove(name)
	if err != nil {
		return nil, err
	}

	if len(manifest.Recipients) == 0 {
		return nil, kerrors.ErrNoRecipients
	}

	reEncrypted, err := reEncryptForManifest(opts.Settings, manifest)
	if err != nil {
		return nil, err
	}

	if err := vault.SaveManifest(opts.Settings.ManifestPath, manifest); err != nil {
		return nil, err
	}

	auditEntry := audit.New("recipient-remove")
	auditEntry.Recipient = name
	auditEntry.Count = len(manifest.Recipients)
	audit.Log(opts.Settings.AuditPath, auditEntry)

	return &RecipientChangeResult{
		Entry:            entry,
		RecipientCount:   len(manifest.Recipients),
		StoreReEncrypted: reEncrypted,
		Warning:          RemovalWarning,
	}, nil
}

// reEncryptForManifest decrypts the store with the local identity and
// re-seals it for the manifest's recipient set. A missing store is fine:
// the manifest change alone then defines future encryptions.
func reEncryptForManifest(s config.Settings, manifest *vault.Manifest) (bool, error) {
	plaintext, err := vault.ReadStore(s)
	if errors.Is(err, kerrors.ErrStoreNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	recipients, err := manifest.AgeRecipients()
	if err != nil {
		return false, err
	}

	if err := vault.WriteStoreTo(s.StorePath, plaintext, recipients); err != nil {
		return false, err
	}
	return true, nil
}

package workflows

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"filippo.io/age"

	"github.com/ferntree/secrets/internal/audit"
	"github.com/ferntree/secrets/internal/config"
	kerrors "github.com/ferntree/secrets/internal/errors"
	"github.com/ferntree/secrets/internal/vault"
)

// RotateOptions configures identity rotation.
type RotateOptions struct {
	Settings config.Settings

	// DeviceName labels the new manifest entry when the old key has none.
	DeviceName string
}

// RotateResult contains the outcome of a rotation.
type RotateResult struct {
	// PublicKey is the replacement identity's recipient.
	PublicKey string

	// BackupPath is where the previous identity file was preserved.
	BackupPath string

	// DeviceName is the manifest entry the new key landed in.
	DeviceName string

	// StoreReEncrypted reports whether the artifact was re-sealed.
	StoreReEncrypted bool
}

// Rotate replaces this device's identity: the store is decrypted with the
// old key, a new identity is generated (the old file is kept as a backup),
// the manifest entry for the old public key is swapped for the new one,
// and the store is re-sealed. The old ciphertext remains readable by the
// old key wherever it was already distributed.
func Rotate(_ context.Context, opts RotateOptions) (*RotateResult, error) {
	result, manifest, err := rotateIdentity(opts.Settings, opts.DeviceName)
	if err != nil {
		return nil, err
	}

	entry := audit.New("rotate")
	entry.Count = len(manifest.Recipients)
	audit.Log(opts.Settings.AuditPath, entry)

	return result, nil
}

// rotateIdentity is the shared core of Rotate and forced re-init: decrypt
// with the outgoing key, back it up, generate a replacement, swap the
// manifest entry, and re-seal the store. The old private key is never
// destroyed; without it an already-sealed store would be lost for good.
func rotateIdentity(s config.Settings, deviceName string) (*RotateResult, *vault.Manifest, error) {
	// Decrypt with the outgoing identity first; after regeneration it is
	// too late.
	plaintext, err := vault.ReadStore(s)
	if err != nil && !errors.Is(err, kerrors.ErrStoreNotFound) {
		return nil, nil, err
	}
	hasStore := err == nil

	oldRecipients, err := vault.LocalRecipients(s.IdentityPath)
	if err != nil {
		return nil, nil, err
	}

	backupPath := s.IdentityPath + ".bak-" + time.Now().Format("20060102-150405")
	if err := os.Rename(s.IdentityPath, backupPath); err != nil {
		return nil, nil, fmt.Errorf("failed to back up identity: %w", err)
	}

	identity, err := vault.GenerateIdentity(s.IdentityPath, false)
	if err != nil {
		return nil, nil, err
	}

	manifest, err := vault.LoadManifest(s.ManifestPath)
	if err != nil {
		return nil, nil, err
	}
	entryName := swapManifestKey(manifest, oldRecipients, identity, deviceName)
	if err := vault.SaveManifest(s.ManifestPath, manifest); err != nil {
		return nil, nil, err
	}

	result := &RotateResult{
		PublicKey:  identity.Recipient().String(),
		BackupPath: backupPath,
		DeviceName: entryName,
	}

	if hasStore {
		recipients, err := manifest.AgeRecipients()
		if err != nil {
			return nil, nil, err
		}
		if len(recipients) == 0 {
			recipients = []age.Recipient{identity.Recipient()}
		}
		if err := vault.WriteStoreTo(s.StorePath, plaintext, recipients); err != nil {
			return nil, nil, err
		}
		result.StoreReEncrypted = true
	}

	return result, manifest, nil
}

// swapManifestKey replaces the manifest entry for any of the old public
// keys with the new one, preserving the entry's name and ID. Without a
// matching entry a new one is added so the manifest stays authoritative.
// Returns the name of the entry the new key ended up in.
func swapManifestKey(m *vault.Manifest, oldRecipients []age.Recipient, identity *age.X25519Identity, deviceName string) string {
	newKey := identity.Recipient().String()

	for _, old := range oldRecipients {
		x, ok := old.(*age.X25519Recipient)
		if !ok {
			continue
		}
		if entry, ok := m.SwapKey(x.String(), newKey); ok {
			return entry.Name
		}
	}

	name := deviceName
	if name == "" {
		if hostname, err := os.Hostname(); err == nil {
			name = hostname
		} else {
			name = "device"
		}
	}
	// Ignore a name collision here: the rotated key still needs a slot.
	if entry, err := m.Add(name, newKey); err == nil {
		return entry.Name
	}
	if entry, err := m.Add(name+"-rotated", newKey); err == nil {
		return entry.Name
	}
	return name
}

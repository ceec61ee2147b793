package workflows

import (
	"context"
	"fmt"
	"os"

	"github.com/ferntree/secrets/internal/audit"
	"github.com/ferntree/secrets/internal/config"
	kerrors "github.com/ferntree/secrets/internal/errors"
	"github.com/ferntree/secrets/internal/vault"
)

// InitOptions configures initialization.
type InitOptions struct {
	Settings config.Settings

	// DeviceName labels this device's recipient in the manifest.
	// Defaults to the hostname.
	DeviceName string

	// Force replaces an existing identity. The old key is backed up and
	// the store re-sealed, never destroyed.
	Force bool
}

// InitResult contains the outcome of initialization.
type InitResult struct {
	// PublicKey is the new identity's recipient, safe to share.
	PublicKey string

	// IdentityPath is where the private identity was written.
	IdentityPath string

	// DeviceName is the manifest label chosen for this device.
	DeviceName string

	// BackupPath is where a replaced identity was preserved; empty on a
	// fresh init.
	BackupPath string

	// StoreCreated reports whether a starter store was encrypted.
	StoreCreated bool
}

// Init generates a device identity, registers it in the recipient
// manifest, and seeds an encrypted starter store when none exists yet.
//
// With Force on a device that already has an identity, init behaves like a
// rotation: the old key is backed up, its manifest entry swaps to the new
// key, and the store is re-sealed. Overwriting the only key outright would
// strand an already-sealed store with no way back.
func Init(_ context.Context, opts InitOptions) (*InitResult, error) {
	s := opts.Settings

	deviceName := opts.DeviceName
	if deviceName == "" {
		if hostname, err := os.Hostname(); err == nil {
			deviceName = hostname
		} else {
			deviceName = "device"
		}
	}

	if _, err := os.Stat(s.IdentityPath); err == nil {
		if !opts.Force {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrIdentityExists, s.IdentityPath)
		}
		return reinit(s, deviceName)
	}

	identity, err := vault.GenerateIdentity(s.IdentityPath, false)
	if err != nil {
		return nil, err
	}

	manifest, err := vault.LoadManifest(s.ManifestPath)
	if err != nil {
		return nil, err
	}
	if _, err := manifest.Add(deviceName, identity.Recipient().String()); err != nil {
		return nil, err
	}
	if err := vault.SaveManifest(s.ManifestPath, manifest); err != nil {
		return nil, err
	}

	result := &InitResult{
		PublicKey:    identity.Recipient().String(),
		IdentityPath: s.IdentityPath,
		DeviceName:   deviceName,
	}

	if err := seedStarterStore(s, result); err != nil {
		return nil, err
	}

	entry := audit.New("init")
	entry.Recipient = deviceName
	entry.Count = len(manifest.Recipients)
	audit.Log(s.AuditPath, entry)

	return result, nil
}

// reinit handles a forced init over an existing identity by rotating it.
func reinit(s config.Settings, deviceName string) (*InitResult, error) {
	rres, manifest, err := rotateIdentity(s, deviceName)
	if err != nil {
		return nil, err
	}

	result := &InitResult{
		PublicKey:    rres.PublicKey,
		IdentityPath: s.IdentityPath,
		DeviceName:   rres.DeviceName,
		BackupPath:   rres.BackupPath,
	}

	if err := seedStarterStore(s, result); err != nil {
		return nil, err
	}

	entry := audit.New("init")
	entry.Recipient = result.DeviceName
	entry.Count = len(manifest.Recipients)
	audit.Log(s.AuditPath, entry)

	return result, nil
}

// seedStarterStore encrypts the initial plaintext when no store exists yet.
func seedStarterStore(s config.Settings, result *InitResult) error {
	if _, err := os.Stat(s.StorePath); !os.IsNotExist(err) {
		return nil
	}

	starter, err := starterStore(s)
	if err != nil {
		return err
	}
	if err := vault.WriteStore(s, starter); err != nil {
		return err
	}
	result.StoreCreated = true
	return nil
}

// starterStore returns the initial plaintext: the template when present,
// otherwise a commented header.
func starterStore(s config.Settings) ([]byte, error) {
	data, err := os.ReadFile(s.TemplatePath)
	if err == nil {
		return data, nil
	}
	if os.IsNotExist(err) {
		return []byte("# One secret per line, KEY=value.\n# Lines starting with '#' are comments.\n"), nil
	}
	return nil, fmt.Errorf("failed to read template: %w", err)
}

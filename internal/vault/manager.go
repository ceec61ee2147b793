package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"

	"github.com/ferntree/secrets/internal/config"
	kerrors "github.com/ferntree/secrets/internal/errors"
)

// ReadStore decrypts the credential store artifact and returns its
// plaintext. Each failure mode maps to a distinct sentinel so a lookup
// miss is never confused with a decryption failure.
func ReadStore(s config.Settings) ([]byte, error) {
	ciphertext, err := os.ReadFile(s.StorePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrStoreNotFound, s.StorePath)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrPermission, s.StorePath)
		}
		return nil, fmt.Errorf("failed to read store: %w", err)
	}

	identities, err := LoadIdentities(s.IdentityPath)
	if err != nil {
		return nil, err
	}

	return Decrypt(ciphertext, identities)
}

// EncryptionRecipients resolves the recipient set the store is sealed for:
// the manifest entries when any exist, otherwise the local identity's own
// public keys. With neither available there is nobody to encrypt to.
func EncryptionRecipients(s config.Settings) ([]age.Recipient, error) {
	manifest, err := LoadManifest(s.ManifestPath)
	if err != nil {
		return nil, err
	}

	if len(manifest.Recipients) > 0 {
		return manifest.AgeRecipients()
	}

	recipients, err := LocalRecipients(s.IdentityPath)
	if err != nil {
		return nil, fmt.Errorf("%w: no manifest entries and no local identity", kerrors.ErrIdentityNotFound)
	}
	return recipients, nil
}

// WriteStore encrypts plaintext for the configured recipient set and
// atomically replaces the store artifact. The new ciphertext goes to a
// temporary file first; the original is only replaced on full success, so
// a failed encryption never leaves a partial store behind.
func WriteStore(s config.Settings, plaintext []byte) error {
	recipients, err := EncryptionRecipients(s)
	if err != nil {
		return err
	}
	return WriteStoreTo(s.StorePath, plaintext, recipients)
}

// WriteStoreTo encrypts plaintext to the given recipients and atomically
// writes it to path.
func WriteStoreTo(path string, plaintext []byte, recipients []age.Recipient) error {
	ciphertext, err := Encrypt(plaintext, recipients)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary store file: %w", err)
	}
	tmpPath := tmp.Name()

	// Remove the temp file on any failure path below.
	defer func() {
		if tmpPath != "" {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(ciphertext); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temporary store file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temporary store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary store file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace store: %w", err)
	}
	tmpPath = ""

	return nil
}

// EncryptFile seals the plaintext file at path for the given recipients
// and writes path + the encrypted extension. Refuses to double-encrypt.
func EncryptFile(path string, recipients []age.Recipient) (string, error) {
	if strings.HasSuffix(path, config.EncryptedExt) {
		return "", fmt.Errorf("%s is already encrypted", path)
	}

	plaintext, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", kerrors.ErrNoFilesFound, path)
		}
		if os.IsPermission(err) {
			return "", fmt.Errorf("%w: %s", kerrors.ErrPermission, path)
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	ciphertext, err := Encrypt(plaintext, recipients)
	if err != nil {
		return "", err
	}

	outPath := path + config.EncryptedExt
	if err := os.WriteFile(outPath, ciphertext, 0600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	return outPath, nil
}

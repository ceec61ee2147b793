package vault

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"filippo.io/age"

	kerrors "github.com/ferntree/secrets/internal/errors"
)

// GenerateIdentity creates a new age x25519 identity and writes it to path
// with owner-only permissions, in the same layout age-keygen produces.
// An existing file is refused unless force is set.
func GenerateIdentity(path string, force bool) (*age.X25519Identity, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrIdentityExists, path)
		}
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("failed to generate identity: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create identity directory: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# created: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&buf, "# public key: %s\n", identity.Recipient())
	fmt.Fprintf(&buf, "%s\n", identity)

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return nil, fmt.Errorf("failed to write identity file: %w", err)
	}

	return identity, nil
}

// LoadIdentities reads every identity from the file at path. A file may
// hold several identities; decryption tries them all, which supports both
// the shared-identity and per-device key models.
func LoadIdentities(path string) ([]age.Identity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrIdentityNotFound, path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrPermission, path)
		}
		return nil, fmt.Errorf("failed to read identity file: %w", err)
	}

	identities, err := age.ParseIdentities(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse identity file %s: %w", path, err)
	}

	return identities, nil
}

// LocalRecipients derives the public recipients for every x25519 identity
// in the file at path. Used as the encryption fallback when no manifest
// entries exist yet.
func LocalRecipients(path string) ([]age.Recipient, error) {
	identities, err := LoadIdentities(path)
	if err != nil {
		return nil, err
	}

	var recipients []age.Recipient
	for _, id := range identities {
		if x, ok := id.(*age.X25519Identity); ok {
			recipients = append(recipients, x.Recipient())
		}
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("%w: no x25519 identities in %s", kerrors.ErrIdentityNotFound, path)
	}

	return recipients, nil
}

// CheckIdentityPermissions warns about group/world access on the identity
// file. Returns the offending mode and true when permissions are too open.
func CheckIdentityPermissions(path string) (os.FileMode, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, false
	}
	mode := info.Mode().Perm()
	return mode, mode&0077 != 0
}

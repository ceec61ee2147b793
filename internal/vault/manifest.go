package vault

import (
	"fmt"
	"os"
	"time"

	"filippo.io/age"
	"github.com/google/uuid"

	"github.com/ferntree/secrets/internal/config"
	kerrors "github.com/ferntree/secrets/internal/errors"
)

// ManifestVersion is bumped when the manifest schema changes.
const ManifestVersion = 1

// Manifest is the versioned record of who can decrypt the store. It lives
// next to the encrypted artifact and travels with it through the sync
// layer, so the recipient set is never tracked only in someone's head.
type Manifest struct {
	Version    int              `toml:"version"`
	Recipients []RecipientEntry `toml:"recipients"`
}

// RecipientEntry is one public key the store is sealed for.
type RecipientEntry struct {
	ID        string    `toml:"id"`
	Name      string    `toml:"name"`
	PublicKey string    `toml:"public_key"`
	AddedAt   time.Time `toml:"added_at"`
}

// LoadManifest reads the manifest at path. A missing file yields an empty
// manifest, not an error: a fresh store has no manifest yet.
func LoadManifest(path string) (*Manifest, error) {
	m := &Manifest{Version: ManifestVersion}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return m, nil
	}

	if err := config.LoadTOML(path, m); err != nil {
		return nil, fmt.Errorf("failed to load recipient manifest: %w", err)
	}
	if m.Version == 0 {
		m.Version = ManifestVersion
	}

	return m, nil
}

// SaveManifest writes the manifest to path.
func SaveManifest(path string, m *Manifest) error {
	if err := config.SaveTOML(path, m); err != nil {
		return fmt.Errorf("failed to save recipient manifest: %w", err)
	}
	return nil
}

// Add validates and appends a recipient. Duplicate names and duplicate
// public keys are rejected.
func (m *Manifest) Add(name, publicKey string) (RecipientEntry, error) {
	if _, err := age.ParseX25519Recipient(publicKey); err != nil {
		return RecipientEntry{}, fmt.Errorf("%w: %v", kerrors.ErrInvalidRecipient, err)
	}

	for _, r := range m.Recipients {
		if r.Name == name {
			return RecipientEntry{}, fmt.Errorf("%w: name %s", kerrors.ErrRecipientExists, name)
		}
		if r.PublicKey == publicKey {
			return RecipientEntry{}, fmt.Errorf("%w: key already listed as %s", kerrors.ErrRecipientExists, r.Name)
		}
	}

	entry := RecipientEntry{
		ID:        uuid.New().String(),
		Name:      name,
		PublicKey: publicKey,
		AddedAt:   time.Now().UTC(),
	}
	m.Recipients = append(m.Recipients, entry)

	return entry, nil
}

// Remove deletes the named recipient and returns its entry.
func (m *Manifest) Remove(name string) (RecipientEntry, error) {
	for i, r := range m.Recipients {
		if r.Name == name {
			m.Recipients = append(m.Recipients[:i], m.Recipients[i+1:]...)
			return r, nil
		}
	}
	return RecipientEntry{}, fmt.Errorf("%w: %s", kerrors.ErrRecipientNotFound, name)
}

// SwapKey replaces oldKey with newKey on the entry holding oldKey,
// preserving the entry's name and ID. Used by rotation, where the device
// keeps its slot and only the key material changes.
func (m *Manifest) SwapKey(oldKey, newKey string) (RecipientEntry, bool) {
	for i := range m.Recipients {
		if m.Recipients[i].PublicKey == oldKey {
			m.Recipients[i].PublicKey = newKey
			m.Recipients[i].AddedAt = time.Now().UTC()
			return m.Recipients[i], true
		}
	}
	return RecipientEntry{}, false
}

// AgeRecipients parses every manifest entry into an age recipient.
func (m *Manifest) AgeRecipients() ([]age.Recipient, error) {
	recipients := make([]age.Recipient, 0, len(m.Recipients))
	for _, r := range m.Recipients {
		recipient, err := age.ParseX25519Recipient(r.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("%w: %s (%v)", kerrors.ErrInvalidRecipient, r.Name, err)
		}
		recipients = append(recipients, recipient)
	}
	return recipients, nil
}

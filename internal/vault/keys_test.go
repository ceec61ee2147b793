package vault

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	kerrors "github.com/ferntree/secrets/internal/errors"
)

func TestGenerateIdentity(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "secrets-keys-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "keys", "identity.txt")

	id, err := GenerateIdentity(path, false)
	if err != nil {
		t.Fatalf("GenerateIdentity failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Identity file missing: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("Identity file permissions = %o, want 0600", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read identity file: %v", err)
	}
	if !strings.Contains(string(data), "AGE-SECRET-KEY-") {
		t.Error("Identity file missing secret key line")
	}
	if !strings.Contains(string(data), id.Recipient().String()) {
		t.Error("Identity file missing public key comment")
	}

	// Refuses to overwrite without force.
	if _, err := GenerateIdentity(path, false); !errors.Is(err, kerrors.ErrIdentityExists) {
		t.Errorf("Second GenerateIdentity error = %v, want ErrIdentityExists", err)
	}

	// Force replaces the identity.
	id2, err := GenerateIdentity(path, true)
	if err != nil {
		t.Fatalf("GenerateIdentity with force failed: %v", err)
	}
	if id2.Recipient().String() == id.Recipient().String() {
		t.Error("Forced regeneration produced the same key")
	}
}

func TestLoadIdentities(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "secrets-keys-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "identity.txt")
	if _, err := GenerateIdentity(path, false); err != nil {
		t.Fatalf("GenerateIdentity failed: %v", err)
	}

	identities, err := LoadIdentities(path)
	if err != nil {
		t.Fatalf("LoadIdentities failed: %v", err)
	}
	if len(identities) != 1 {
		t.Errorf("Expected 1 identity, got %d", len(identities))
	}
}

func TestLoadIdentities_Missing(t *testing.T) {
	_, err := LoadIdentities(filepath.Join(t.TempDir(), "nope.txt"))
	if !errors.Is(err, kerrors.ErrIdentityNotFound) {
		t.Errorf("error = %v, want ErrIdentityNotFound", err)
	}
}

func TestLocalRecipients(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "secrets-keys-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "identity.txt")
	if _, err := GenerateIdentity(path, false); err != nil {
		t.Fatalf("GenerateIdentity failed: %v", err)
	}

	recipients, err := LocalRecipients(path)
	if err != nil {
		t.Fatalf("LocalRecipients failed: %v", err)
	}
	if len(recipients) != 1 {
		t.Fatalf("Expected 1 recipient, got %d", len(recipients))
	}

	// The derived recipient must be able to receive for the identity.
	ciphertext, err := Encrypt([]byte("X=y\n"), recipients)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	identities, err := LoadIdentities(path)
	if err != nil {
		t.Fatalf("LoadIdentities failed: %v", err)
	}
	plaintext, err := Decrypt(ciphertext, identities)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if string(plaintext) != "X=y\n" {
		t.Errorf("Round trip mismatch: %q", plaintext)
	}
}

func TestCheckIdentityPermissions(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "secrets-keys-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "identity.txt")
	if _, err := GenerateIdentity(path, false); err != nil {
		t.Fatalf("GenerateIdentity failed: %v", err)
	}

	if _, open := CheckIdentityPermissions(path); open {
		t.Error("Fresh identity reported as too open")
	}

	if err := os.Chmod(path, 0644); err != nil {
		t.Fatalf("Chmod failed: %v", err)
	}
	mode, open := CheckIdentityPermissions(path)
	if !open {
		t.Error("0644 identity not reported as too open")
	}
	if mode != 0644 {
		t.Errorf("mode = %o, want 0644", mode)
	}
}

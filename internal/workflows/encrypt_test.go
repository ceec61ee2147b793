package workflows

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"filippo.io/age"

	kerrors "github.com/ferntree/secrets/internal/errors"
	"github.com/ferntree/secrets/internal/vault"
)

func TestEncryptFiles(t *testing.T) {
	s, cleanup := initializedSettings(t)
	defer cleanup()

	workDir := filepath.Join(s.StoreDir, "project")
	if err := os.MkdirAll(workDir, 0700); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	for name, content := range map[string]string{
		"service.env": "A=1\n",
		"db.env":      "URL=postgres://host/db\n",
	} {
		if err := os.WriteFile(filepath.Join(workDir, name), []byte(content), 0600); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}

	result, err := EncryptFiles(context.Background(), EncryptOptions{
		Settings: s,
		Patterns: []string{"*.env"},
		BaseDir:  workDir,
	})
	if err != nil {
		t.Fatalf("EncryptFiles failed: %v", err)
	}
	if len(result.EncryptedFiles) != 2 {
		t.Fatalf("EncryptedFiles = %d, want 2", len(result.EncryptedFiles))
	}

	identities, err := vault.LoadIdentities(s.IdentityPath)
	if err != nil {
		t.Fatalf("LoadIdentities failed: %v", err)
	}
	for _, out := range result.EncryptedFiles {
		ciphertext, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("ReadFile %s failed: %v", out, err)
		}
		if _, err := vault.Decrypt(ciphertext, identities); err != nil {
			t.Errorf("Cannot decrypt %s: %v", out, err)
		}
	}
}

func TestEncryptFiles_RejectsDuplicateKeys(t *testing.T) {
	s, cleanup := initializedSettings(t)
	defer cleanup()

	workDir := filepath.Join(s.StoreDir, "project")
	if err := os.MkdirAll(workDir, 0700); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	path := filepath.Join(workDir, "dup.env")
	if err := os.WriteFile(path, []byte("A=1\nA=2\n"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, err := EncryptFiles(context.Background(), EncryptOptions{
		Settings: s,
		Patterns: []string{"dup.env"},
		BaseDir:  workDir,
	})
	if !errors.Is(err, kerrors.ErrDuplicateKey) {
		t.Errorf("error = %v, want ErrDuplicateKey", err)
	}

	// Validation failed before anything was written.
	if _, err := os.Stat(path + ".age"); !os.IsNotExist(err) {
		t.Error("Encrypted output written despite failed validation")
	}
}

func TestEncryptFiles_NoMatches(t *testing.T) {
	s, cleanup := initializedSettings(t)
	defer cleanup()

	_, err := EncryptFiles(context.Background(), EncryptOptions{
		Settings: s,
		Patterns: []string{"*.env"},
		BaseDir:  s.StoreDir,
	})
	if !errors.Is(err, kerrors.ErrNoFilesFound) {
		t.Errorf("error = %v, want ErrNoFilesFound", err)
	}
}

func TestEncryptFiles_UsesManifestRecipients(t *testing.T) {
	s, cleanup := initializedSettings(t)
	defer cleanup()

	other, err := age.GenerateX25519Identity()
	if err != nil {
		t.Fatalf("GenerateX25519Identity failed: %v", err)
	}
	if _, err := RecipientAdd(context.Background(), RecipientOptions{Settings: s}, "desktop", other.Recipient().String()); err != nil {
		t.Fatalf("RecipientAdd failed: %v", err)
	}

	workDir := filepath.Join(s.StoreDir, "project")
	if err := os.MkdirAll(workDir, 0700); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	path := filepath.Join(workDir, "service.env")
	if err := os.WriteFile(path, []byte("A=1\n"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	result, err := EncryptFiles(context.Background(), EncryptOptions{
		Settings: s,
		Patterns: []string{"service.env"},
		BaseDir:  workDir,
	})
	if err != nil {
		t.Fatalf("EncryptFiles failed: %v", err)
	}

	ciphertext, err := os.ReadFile(result.EncryptedFiles[0])
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if _, err := vault.Decrypt(ciphertext, []age.Identity{other}); err != nil {
		t.Errorf("Manifest recipient cannot decrypt: %v", err)
	}
}

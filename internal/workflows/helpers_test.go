package workflows

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ferntree/secrets/internal/config"
	"github.com/ferntree/secrets/internal/vault"
)

// testSettings builds Settings rooted in a fresh temp directory, returning
// the settings and a cleanup function. No identity exists yet; tests that
// need one run Init or generate it directly.
func testSettings(t *testing.T) (config.Settings, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "secrets-workflows-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	storeDir := filepath.Join(tmpDir, "store")
	s := config.Settings{
		StoreDir:     storeDir,
		StorePath:    filepath.Join(storeDir, config.StoreFileName),
		IdentityPath: filepath.Join(tmpDir, "keys", "identity.txt"),
		ManifestPath: filepath.Join(storeDir, config.ManifestFileName),
		TemplatePath: filepath.Join(storeDir, config.TemplateFileName),
		AuditPath:    filepath.Join(storeDir, config.AuditFileName),
	}

	return s, func() { os.RemoveAll(tmpDir) }
}

// initializedSettings runs Init under a fresh temp directory so tests start
// from a working device: identity, manifest entry, and starter store.
func initializedSettings(t *testing.T) (config.Settings, func()) {
	t.Helper()

	s, cleanup := testSettings(t)
	if _, err := Init(context.Background(), InitOptions{Settings: s, DeviceName: "laptop"}); err != nil {
		cleanup()
		t.Fatalf("Init failed: %v", err)
	}
	return s, cleanup
}

// seedStore replaces the store contents with the given plaintext.
func seedStore(t *testing.T, s config.Settings, plaintext string) {
	t.Helper()

	if err := vault.WriteStore(s, []byte(plaintext)); err != nil {
		t.Fatalf("WriteStore failed: %v", err)
	}
}

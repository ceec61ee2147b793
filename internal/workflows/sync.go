package workflows

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ferntree/secrets/internal/audit"
	"github.com/ferntree/secrets/internal/config"
	"github.com/ferntree/secrets/internal/gitsync"
)

// SyncOptions configures the sync operation.
type SyncOptions struct {
	Settings config.Settings

	// Message overrides the default commit message.
	Message string
}

// SyncResult contains the outcome of a sync.
type SyncResult struct {
	// Committed reports whether a new commit was created.
	Committed bool

	// Hash is the short hash of the new commit; empty when nothing changed.
	Hash string

	// Files lists the paths that were staged.
	Files []string
}

// Sync commits the encrypted artifact and its sidecars (manifest and
// template) in the git repository containing the store directory. Only
// ciphertext and metadata ever touch the repository; plaintext never does,
// and the audit log stays device-local so recording a sync never dirties
// the next one.
func Sync(ctx context.Context, opts SyncOptions) (*SyncResult, error) {
	s := opts.Settings

	var files []string
	for _, p := range []string{s.StorePath, s.ManifestPath, s.TemplatePath} {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		rel, err := filepath.Rel(s.StoreDir, p)
		if err != nil || !filepath.IsLocal(rel) {
			// Sidecars configured outside the store dir cannot be staged
			// from this repository.
			continue
		}
		files = append(files, rel)
	}

	message := opts.Message
	if message == "" {
		message = "Update encrypted secrets"
	}

	res, err := gitsync.Commit(ctx, s.StoreDir, files, message)
	if err != nil {
		return nil, err
	}

	if res.Committed {
		entry := audit.New("sync")
		entry.Files = files
		entry.Message = res.Hash
		audit.Log(s.AuditPath, entry)
	}

	return &SyncResult{Committed: res.Committed, Hash: res.Hash, Files: files}, nil
}

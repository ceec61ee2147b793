package workflows

import (
	"context"

	"github.com/ferntree/secrets/internal/audit"
	"github.com/ferntree/secrets/internal/config"
	"github.com/ferntree/secrets/internal/vault"
)

// EditOptions configures the edit workflow.
type EditOptions struct {
	Settings config.Settings

	// EditorArgv overrides the configured editor command when non-empty.
	EditorArgv []string
}

// EditResult contains the outcome of an edit session.
type EditResult struct {
	// Changed reports whether the store was rewritten.
	Changed bool

	// Created reports whether this session created the store.
	Created bool
}

// Edit runs the scoped-plaintext edit session and re-encrypts the result
// for the current recipient set.
func Edit(ctx context.Context, opts EditOptions) (*EditResult, error) {
	argv := opts.EditorArgv
	if len(argv) == 0 {
		argv = opts.Settings.EditorArgv()
	}

	vres, err := vault.EditStore(ctx, opts.Settings, argv)
	if err != nil {
		return nil, err
	}

	if vres.Changed {
		entry := audit.New("edit")
		entry.Changed = true
		audit.Log(opts.Settings.AuditPath, entry)
	}

	return &EditResult{Changed: vres.Changed, Created: vres.Created}, nil
}

package workflows

import (
	"context"

	"github.com/ferntree/secrets/internal/audit"
	"github.com/ferntree/secrets/internal/config"
)

// LogOptions configures audit log retrieval.
type LogOptions struct {
	Settings config.Settings

	// Limit caps the number of entries returned, newest last. Zero means
	// all entries.
	Limit int
}

// Log returns the recorded audit entries in chronological order.
func Log(_ context.Context, opts LogOptions) ([]audit.Entry, error) {
	entries, err := audit.ReadEntries(opts.Settings.AuditPath)
	if err != nil {
		return nil, err
	}

	if opts.Limit > 0 && len(entries) > opts.Limit {
		entries = entries[len(entries)-opts.Limit:]
	}
	return entries, nil
}

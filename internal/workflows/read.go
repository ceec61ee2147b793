package workflows

import (
	"context"

	"github.com/ferntree/secrets/internal/config"
	"github.com/ferntree/secrets/internal/store"
	"github.com/ferntree/secrets/internal/vault"
)

// ReadOptions configures the read-only operations.
type ReadOptions struct {
	Settings config.Settings
}

// openStore decrypts the artifact and parses it leniently. Every read
// operation is a one-shot transaction: decrypt, parse, serve, discard.
func openStore(_ context.Context, opts ReadOptions) (*store.Store, error) {
	plaintext, err := vault.ReadStore(opts.Settings)
	if err != nil {
		return nil, err
	}
	return store.Parse(plaintext, store.Lenient)
}

// Lookup returns the value for key. A missing key fails with
// ErrKeyNotFound, which callers must present distinctly from any
// decryption failure.
func Lookup(ctx context.Context, opts ReadOptions, key string) (string, error) {
	s, err := openStore(ctx, opts)
	if err != nil {
		return "", err
	}
	return s.Lookup(key)
}

// List returns the keys in store order, values withheld.
func List(ctx context.Context, opts ReadOptions) ([]string, error) {
	s, err := openStore(ctx, opts)
	if err != nil {
		return nil, err
	}
	return s.Keys(), nil
}

// Export returns the canonical KEY=value lines for env-file redirection.
func Export(ctx context.Context, opts ReadOptions) (string, error) {
	s, err := openStore(ctx, opts)
	if err != nil {
		return "", err
	}
	return s.Export(), nil
}

// ShellSource returns shell-evaluable export statements with defensively
// quoted values, for the eval $(secrets -s) pattern.
func ShellSource(ctx context.Context, opts ReadOptions) (string, error) {
	s, err := openStore(ctx, opts)
	if err != nil {
		return "", err
	}
	return s.ShellSource(), nil
}

// Decrypt returns the full raw decrypted content, comments included.
func Decrypt(_ context.Context, opts ReadOptions) ([]byte, error) {
	return vault.ReadStore(opts.Settings)
}

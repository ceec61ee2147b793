// Package gitsync triggers the external versioning layer. Git is an
// external collaborator: this package only shells out to the git binary
// found on PATH and never interprets repository internals.
package gitsync

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	kerrors "github.com/ferntree/secrets/internal/errors"
)

// CommitResult describes the outcome of a sync commit.
type CommitResult struct {
	// Committed is false when the work tree had no changes to record.
	Committed bool

	// Hash is the abbreviated commit hash when a commit was created.
	Hash string
}

// IsRepository reports whether dir is inside a git work tree.
func IsRepository(ctx context.Context, dir string) bool {
	out, err := run(ctx, dir, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

// Commit stages the given paths in dir and records a commit. Only the
// encrypted artifact and its metadata should ever be passed here; the
// caller is responsible for never staging plaintext.
func Commit(ctx context.Context, dir string, paths []string, message string) (*CommitResult, error) {
	if !IsRepository(ctx, dir) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrNotARepository, dir)
	}

	args := append([]string{"add", "--"}, paths...)
	if _, err := run(ctx, dir, args...); err != nil {
		return nil, fmt.Errorf("git add failed: %w", err)
	}

	// Nothing staged means nothing to commit; that is not an error.
	if _, err := run(ctx, dir, "diff", "--cached", "--quiet"); err == nil {
		return &CommitResult{}, nil
	}

	if _, err := run(ctx, dir, "commit", "-m", message); err != nil {
		return nil, fmt.Errorf("git commit failed: %w", err)
	}

	hash, err := run(ctx, dir, "rev-parse", "--short", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("git rev-parse failed: %w", err)
	}

	return &CommitResult{Committed: true, Hash: strings.TrimSpace(hash)}, nil
}

func run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", dir}, args...)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("%v: %s", err, msg)
		}
		return "", err
	}

	return stdout.String(), nil
}

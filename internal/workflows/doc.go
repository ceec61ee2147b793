// Package workflows implements one function per CLI operation.
//
// Each function takes a context and an Options struct carrying the
// resolved Settings, returns a Result struct, wraps failures in the
// sentinel errors from internal/errors, and records mutating operations
// in the audit log. The command layer maps sentinels to user-facing
// remedies; nothing here prints.
package workflows

// Package vault wraps the age encryption primitive for the credential
// store: identity generation and loading, the versioned recipient
// manifest, multi-recipient encryption, atomic store replacement, and the
// scoped-plaintext edit workflow.
//
// Decrypted content only ever exists in memory or inside the edit
// workflow's owner-only temporary directory, which is removed on every
// exit path.
package vault

package errors

import "errors"

// Key and identity errors indicate the user is missing cryptographic material.
var (
	// ErrIdentityNotFound indicates no private identity file exists at the configured path.
	ErrIdentityNotFound = errors.New("identity file not found")

	// ErrIdentityExists indicates an identity file already exists and would be overwritten.
	ErrIdentityExists = errors.New("identity file already exists")

	// ErrNoMatchingIdentity indicates none of the local identities can decrypt the store.
	ErrNoMatchingIdentity = errors.New("no local identity matches the store's recipients")

	// ErrNoRecipients indicates there is nothing to encrypt to: no manifest entries and no local identity.
	ErrNoRecipients = errors.New("no recipients configured")
)

// Store errors indicate issues with the encrypted artifact or its plaintext format.
var (
	// ErrStoreNotFound indicates the encrypted store file is missing.
	ErrStoreNotFound = errors.New("encrypted store not found")

	// ErrStoreExists indicates the store already exists and would be overwritten.
	ErrStoreExists = errors.New("encrypted store already exists")

	// ErrKeyNotFound indicates the requested key is absent from a successfully decrypted store.
	ErrKeyNotFound = errors.New("key not found in store")

	// ErrMalformedEntry indicates a plaintext line is not a KEY=value pair, comment, or blank.
	ErrMalformedEntry = errors.New("malformed store entry")

	// ErrDuplicateKey indicates the same key appears more than once in the plaintext.
	ErrDuplicateKey = errors.New("duplicate key in store")

	// ErrDecryptFailed indicates decryption failed for a reason other than a missing identity.
	ErrDecryptFailed = errors.New("failed to decrypt store")

	// ErrEncryptFailed indicates encryption of the store or a file failed.
	ErrEncryptFailed = errors.New("failed to encrypt")
)

// Recipient manifest errors.
var (
	// ErrRecipientNotFound indicates the named recipient is not in the manifest.
	ErrRecipientNotFound = errors.New("recipient not found in manifest")

	// ErrRecipientExists indicates a recipient with the same name or public key is already listed.
	ErrRecipientExists = errors.New("recipient already in manifest")

	// ErrInvalidRecipient indicates the supplied public key is not a valid age recipient.
	ErrInvalidRecipient = errors.New("invalid recipient public key")
)

// Filesystem and external-tool errors.
var (
	// ErrPermission indicates a filesystem permission mismatch on a sensitive file.
	ErrPermission = errors.New("permission denied")

	// ErrNoFilesFound indicates no files matched the provided patterns.
	ErrNoFilesFound = errors.New("no matching files found")

	// ErrEditorFailed indicates the interactive editor exited with an error.
	ErrEditorFailed = errors.New("editor exited with an error")

	// ErrNotARepository indicates the store directory is not inside a git work tree.
	ErrNotARepository = errors.New("store directory is not a git repository")
)

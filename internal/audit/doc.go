// Package audit maintains a JSON Lines trail of mutating operations.
//
// The log lives next to the encrypted artifact and syncs with it. Read
// operations (lookup, list, export) are deliberately not logged, and no
// entry ever contains a key name or a decrypted value.
package audit

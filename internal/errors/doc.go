// Package errors defines sentinel errors shared across the secrets CLI.
//
// Workflows wrap these with fmt.Errorf("%w: %v", ...) so the command layer
// can match them with errors.Is and print an actionable remedy. Error text
// never contains decrypted plaintext.
package errors

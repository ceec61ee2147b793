// Package store implements the plaintext credential store format: UTF-8
// text, one KEY=value entry per line, '#' comments and blank lines passed
// through. Parsing is strict on write paths (duplicates and malformed lines
// rejected) and lenient on read paths (first occurrence wins, malformed
// lines skipped).
package store

package store

import (
	"fmt"
	"regexp"
	"strings"

	kerrors "github.com/ferntree/secrets/internal/errors"
)

// Mode selects how Parse treats malformed lines and duplicate keys.
type Mode int

const (
	// Lenient skips malformed lines and resolves duplicate keys
	// first-occurrence-wins. Used on the read path so a store written by
	// hand stays readable.
	Lenient Mode = iota

	// Strict rejects malformed lines and duplicate keys. Used on every
	// write path so a broken store never gets encrypted.
	Strict
)

var keyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Entry is a single KEY=value pair.
type Entry struct {
	Key   string
	Value string
}

// Store is an ordered sequence of entries plus the surrounding comment and
// blank lines, so an edit round-trip preserves the file as the user wrote it.
type Store struct {
	entries []Entry
	// lines holds the original plaintext split into lines, comments included.
	lines []string
}

// Parse reads the plaintext store format: one KEY=value per line, blank
// lines and lines starting with '#' ignored. Values may contain '='.
func Parse(data []byte, mode Mode) (*Store, error) {
	text := strings.TrimSuffix(string(data), "\n")

	s := &Store{}
	if text != "" || len(data) > 0 {
		s.lines = strings.Split(text, "\n")
	}

	seen := make(map[string]bool)

	for i, line := range s.lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		key, value, ok := splitEntry(trimmed)
		if !ok {
			if mode == Strict {
				return nil, fmt.Errorf("%w: line %d", kerrors.ErrMalformedEntry, i+1)
			}
			continue
		}

		if seen[key] {
			if mode == Strict {
				return nil, fmt.Errorf("%w: %s (line %d)", kerrors.ErrDuplicateKey, key, i+1)
			}
			// First occurrence wins.
			continue
		}
		seen[key] = true

		s.entries = append(s.entries, Entry{Key: key, Value: value})
	}

	return s, nil
}

// splitEntry splits a non-comment line into key and value. The value is
// everything after the first '=', unmodified.
func splitEntry(line string) (key, value string, ok bool) {
	idx := strings.IndexByte(line, '=')
	if idx <= 0 {
		return "", "", false
	}
	key = line[:idx]
	if !keyPattern.MatchString(key) {
		return "", "", false
	}
	return key, line[idx+1:], true
}

// Lookup returns the value for key. The match is case-sensitive and exact.
func (s *Store) Lookup(key string) (string, error) {
	for _, e := range s.entries {
		if e.Key == key {
			return e.Value, nil
		}
	}
	return "", fmt.Errorf("%w: %s", kerrors.ErrKeyNotFound, key)
}

// Keys returns the keys in store order, values withheld.
func (s *Store) Keys() []string {
	keys := make([]string, len(s.entries))
	for i, e := range s.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of the ordered entries.
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Export renders the canonical KEY=value form, one entry per line,
// comments and blanks dropped. Suitable for redirection into an env file.
func (s *Store) Export() string {
	var b strings.Builder
	for _, e := range s.entries {
		b.WriteString(e.Key)
		b.WriteByte('=')
		b.WriteString(e.Value)
		b.WriteByte('\n')
	}
	return b.String()
}

// ShellSource renders shell-evaluable export statements, one per entry.
// Values are single-quoted with embedded quotes escaped so spaces, '$',
// backticks, and quotes survive eval unchanged.
func (s *Store) ShellSource() string {
	var b strings.Builder
	for _, e := range s.entries {
		b.WriteString("export ")
		b.WriteString(e.Key)
		b.WriteByte('=')
		b.WriteString(shellQuote(e.Value))
		b.WriteByte('\n')
	}
	return b.String()
}

// shellQuote wraps v in single quotes; an embedded single quote is replaced
// by close-quote, backslash-escaped quote, reopen-quote.
func shellQuote(v string) string {
	return "'" + strings.ReplaceAll(v, "'", `'\''`) + "'"
}

// Template renders the discoverability template: comments and blank lines
// preserved, entries reduced to "KEY=" with the value withheld.
func (s *Store) Template() string {
	var b strings.Builder
	for _, line := range s.lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			b.WriteString(line)
			b.WriteByte('\n')
			continue
		}
		if key, _, ok := splitEntry(trimmed); ok {
			b.WriteString(key)
			b.WriteString("=\n")
		}
	}
	return b.String()
}

// Validate checks data against the strict format without keeping the result.
func Validate(data []byte) error {
	_, err := Parse(data, Strict)
	return err
}

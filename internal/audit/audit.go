package audit

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
)

// Entry represents a single audit log entry. Only operation metadata is
// recorded; key names and values never appear here.
type Entry struct {
	Timestamp string `json:"ts"` // RFC3339 with microseconds.
	ID        string `json:"id"` // Correlation ID for the invocation.
	Operation string `json:"op"` // Operation name.

	// Optional fields depending on operation.
	Files     []string `json:"files,omitempty"`     // For encrypt.
	Recipient string   `json:"recipient,omitempty"` // For recipient add/remove.
	Count     int      `json:"count,omitempty"`     // Recipient count after the change.
	Message   string   `json:"message,omitempty"`   // For sync commits.
	Changed   bool     `json:"changed,omitempty"`   // For edit.
}

// New returns an entry for the given operation with a fresh correlation ID.
func New(op string) Entry {
	return Entry{
		Operation: op,
		ID:        uuid.New().String(),
	}
}

// Log appends an entry to the audit log at path.
// If logging fails it returns silently: operations should not fail just
// because audit logging failed.
func Log(path string, entry Entry) {
	if path == "" {
		return
	}

	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	// #nosec G306 -- the audit log holds metadata only and syncs with the store.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// ReadEntries reads all entries from the audit log at path.
// Returns an empty slice if the log doesn't exist.
func ReadEntries(path string) ([]Entry, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				// Skip malformed entries.
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

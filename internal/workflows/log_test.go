package workflows

import (
	"context"
	"testing"
)

func TestLog(t *testing.T) {
	s, cleanup := initializedSettings(t)
	defer cleanup()

	// Init wrote one entry; edits through the recipient flow add more.
	seedStore(t, s, "A=1\n")
	if _, err := Template(context.Background(), TemplateOptions{Settings: s, Write: true}); err != nil {
		t.Fatalf("Template failed: %v", err)
	}

	entries, err := Log(context.Background(), LogOptions{Settings: s})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Operation != "init" || entries[1].Operation != "template" {
		t.Errorf("operations = %q, %q; want init, template", entries[0].Operation, entries[1].Operation)
	}
}

func TestLog_Limit(t *testing.T) {
	s, cleanup := initializedSettings(t)
	defer cleanup()

	seedStore(t, s, "A=1\n")
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := Template(ctx, TemplateOptions{Settings: s, Write: true}); err != nil {
			t.Fatalf("Template failed: %v", err)
		}
	}

	entries, err := Log(ctx, LogOptions{Settings: s, Limit: 2})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	for _, e := range entries {
		if e.Operation != "template" {
			t.Errorf("Operation = %q, want the newest entries", e.Operation)
		}
	}
}

func TestLog_Empty(t *testing.T) {
	s, cleanup := testSettings(t)
	defer cleanup()

	entries, err := Log(context.Background(), LogOptions{Settings: s})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %d, want 0", len(entries))
	}
}

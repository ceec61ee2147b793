package workflows

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"

	kerrors "github.com/ferntree/secrets/internal/errors"
)

func TestLookup(t *testing.T) {
	s, cleanup := initializedSettings(t)
	defer cleanup()

	seedStore(t, s, "A=1\nB=two words\n#comment\nDB_URL=postgres://u:p@host/db?x=1\n")

	opts := ReadOptions{Settings: s}
	ctx := context.Background()

	tests := []struct {
		key  string
		want string
	}{
		{"A", "1"},
		{"B", "two words"},
		{"DB_URL", "postgres://u:p@host/db?x=1"},
	}
	for _, tt := range tests {
		got, err := Lookup(ctx, opts, tt.key)
		if err != nil {
			t.Errorf("Lookup(%q) failed: %v", tt.key, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Lookup(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestLookup_MissingKey(t *testing.T) {
	s, cleanup := initializedSettings(t)
	defer cleanup()

	seedStore(t, s, "A=1\n")

	_, err := Lookup(context.Background(), ReadOptions{Settings: s}, "NOPE")
	if !errors.Is(err, kerrors.ErrKeyNotFound) {
		t.Errorf("error = %v, want ErrKeyNotFound", err)
	}
}

func TestList(t *testing.T) {
	s, cleanup := initializedSettings(t)
	defer cleanup()

	seedStore(t, s, "B=2\n#comment\nA=1\n")

	keys, err := List(context.Background(), ReadOptions{Settings: s})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if want := []string{"B", "A"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("List = %v, want %v (store order)", keys, want)
	}
}

func TestExportAndShellSource(t *testing.T) {
	s, cleanup := initializedSettings(t)
	defer cleanup()

	seedStore(t, s, "# header\nA=1\nMSG=it's $HOME\n")

	opts := ReadOptions{Settings: s}
	ctx := context.Background()

	export, err := Export(ctx, opts)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if want := "A=1\nMSG=it's $HOME\n"; export != want {
		t.Errorf("Export = %q, want %q", export, want)
	}

	source, err := ShellSource(ctx, opts)
	if err != nil {
		t.Fatalf("ShellSource failed: %v", err)
	}
	if want := "export A='1'\nexport MSG='it'\\''s $HOME'\n"; source != want {
		t.Errorf("ShellSource = %q, want %q", source, want)
	}
}

func TestDecrypt_RawContent(t *testing.T) {
	s, cleanup := initializedSettings(t)
	defer cleanup()

	plaintext := "# comment survives raw output\nA=1\n"
	seedStore(t, s, plaintext)

	got, err := Decrypt(context.Background(), ReadOptions{Settings: s})
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if string(got) != plaintext {
		t.Errorf("Decrypt = %q, want %q", got, plaintext)
	}
}

func TestRead_MissingStore(t *testing.T) {
	s, cleanup := initializedSettings(t)
	defer cleanup()

	if err := os.Remove(s.StorePath); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	_, err := List(context.Background(), ReadOptions{Settings: s})
	if !errors.Is(err, kerrors.ErrStoreNotFound) {
		t.Errorf("error = %v, want ErrStoreNotFound", err)
	}
}

package store

import (
	"errors"
	"reflect"
	"testing"

	kerrors "github.com/ferntree/secrets/internal/errors"
)

func mustParse(t *testing.T, data string, mode Mode) *Store {
	t.Helper()
	s, err := Parse([]byte(data), mode)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", data, err)
	}
	return s
}

func TestParse_BasicScenario(t *testing.T) {
	// The documented scenario: A=1, B=two words, a comment.
	s := mustParse(t, "A=1\nB=two words\n#comment\n", Lenient)

	keys := s.Keys()
	if !reflect.DeepEqual(keys, []string{"A", "B"}) {
		t.Errorf("Keys() = %v, want [A B]", keys)
	}

	if got := s.Export(); got != "A=1\nB=two words\n" {
		t.Errorf("Export() = %q", got)
	}

	v, err := s.Lookup("A")
	if err != nil {
		t.Fatalf("Lookup(A) failed: %v", err)
	}
	if v != "1" {
		t.Errorf("Lookup(A) = %q, want %q", v, "1")
	}

	_, err = s.Lookup("C")
	if !errors.Is(err, kerrors.ErrKeyNotFound) {
		t.Errorf("Lookup(C) error = %v, want ErrKeyNotFound", err)
	}
}

func TestParse_ValueMayContainEquals(t *testing.T) {
	s := mustParse(t, "DATABASE_URL=postgres://u:p@host/db?sslmode=require\n", Lenient)
	v, err := s.Lookup("DATABASE_URL")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if v != "postgres://u:p@host/db?sslmode=require" {
		t.Errorf("value = %q", v)
	}
}

func TestParse_LookupIsCaseSensitive(t *testing.T) {
	s := mustParse(t, "TOKEN=abc\n", Lenient)
	if _, err := s.Lookup("token"); !errors.Is(err, kerrors.ErrKeyNotFound) {
		t.Errorf("Lookup(token) error = %v, want ErrKeyNotFound", err)
	}
}

func TestParse_EmptyAndCommentOnly(t *testing.T) {
	for _, data := range []string{"", "\n", "# only a comment\n\n"} {
		s := mustParse(t, data, Strict)
		if s.Len() != 0 {
			t.Errorf("Parse(%q).Len() = %d, want 0", data, s.Len())
		}
	}
}

func TestParse_StrictRejectsMalformed(t *testing.T) {
	tests := []string{
		"NOEQUALS\n",
		"=value\n",
		"1BAD=value\n",
		"SP ACE=value\n",
		"GOOD=1\nbroken line\n",
	}
	for _, data := range tests {
		if _, err := Parse([]byte(data), Strict); !errors.Is(err, kerrors.ErrMalformedEntry) {
			t.Errorf("Parse(%q) error = %v, want ErrMalformedEntry", data, err)
		}
	}
}

func TestParse_StrictRejectsDuplicates(t *testing.T) {
	_, err := Parse([]byte("A=1\nB=2\nA=3\n"), Strict)
	if !errors.Is(err, kerrors.ErrDuplicateKey) {
		t.Errorf("error = %v, want ErrDuplicateKey", err)
	}
}

func TestParse_LenientFirstMatchWins(t *testing.T) {
	s := mustParse(t, "A=first\nA=second\n", Lenient)
	v, err := s.Lookup("A")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if v != "first" {
		t.Errorf("Lookup(A) = %q, want %q", v, "first")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestParse_LenientSkipsMalformed(t *testing.T) {
	s := mustParse(t, "garbage\nA=1\n", Lenient)
	if !reflect.DeepEqual(s.Keys(), []string{"A"}) {
		t.Errorf("Keys() = %v, want [A]", s.Keys())
	}
}

func TestLookupMatchesExport(t *testing.T) {
	// Lookup(K) must agree with the corresponding Export() line.
	data := "A=1\nB=two words\nC=x=y=z\n"
	s := mustParse(t, data, Strict)

	if got := s.Export(); got != data {
		t.Fatalf("Export() = %q, want %q", got, data)
	}
	for _, e := range s.Entries() {
		v, err := s.Lookup(e.Key)
		if err != nil {
			t.Fatalf("Lookup(%s) failed: %v", e.Key, err)
		}
		if v != e.Value {
			t.Errorf("Lookup(%s) = %q, Export has %q", e.Key, v, e.Value)
		}
	}
}

func TestShellSource_Quoting(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"plain", "1", "export A='1'\n"},
		{"spaces", "two words", "export A='two words'\n"},
		{"dollar", "pa$$word", "export A='pa$$word'\n"},
		{"double quotes", `say "hi"`, "export A='say \"hi\"'\n"},
		{"single quote", "it's", `export A='it'\''s'` + "\n"},
		{"backticks", "`whoami`", "export A='`whoami`'\n"},
		{"empty", "", "export A=''\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustParse(t, "A="+tt.value+"\n", Lenient)
			if got := s.ShellSource(); got != tt.want {
				t.Errorf("ShellSource() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTemplate(t *testing.T) {
	data := "# api credentials\nAPI_KEY=supersecret\n\nDB_PASS=hunter2\n"
	s := mustParse(t, data, Strict)

	want := "# api credentials\nAPI_KEY=\n\nDB_PASS=\n"
	if got := s.Template(); got != want {
		t.Errorf("Template() = %q, want %q", got, want)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate([]byte("A=1\n# ok\n")); err != nil {
		t.Errorf("Validate(valid) = %v", err)
	}
	if err := Validate([]byte("A=1\nA=2\n")); err == nil {
		t.Error("Validate(duplicate) = nil, want error")
	}
}

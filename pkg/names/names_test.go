package names

import (
	"errors"
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"simple", "notes", "notes", false},
		{"uppercase", "My Notes", "my-notes", false},
		{"whitespace runs", "a   b\tc", "a-b-c", false},
		{"strips punctuation", "Read: Later!", "read-later", false},
		{"collapses dashes", "a--b---c", "a-b-c", false},
		{"trims dashes", "--edges--", "edges", false},
		{"unicode stripped", "café notes", "caf-notes", false},
		{"empty", "", "", true},
		{"only punctuation", "!!!", "", true},
		{"too long", strings.Repeat("x", 51), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Slugify(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidName) {
					t.Fatalf("expected ErrInvalidName, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	valid := []string{"bob", "alice-smith", "User123", strings.Repeat("a", 20)}
	for _, u := range valid {
		if err := ValidateUsername(u); err != nil {
			t.Errorf("ValidateUsername(%q) = %v, want nil", u, err)
		}
	}

	invalid := []string{"", "ab", strings.Repeat("a", 21), "with space", "dot.name", "pct%"}
	for _, u := range invalid {
		if err := ValidateUsername(u); !errors.Is(err, ErrInvalidName) {
			t.Errorf("ValidateUsername(%q) = %v, want ErrInvalidName", u, err)
		}
	}
}

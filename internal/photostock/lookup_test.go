package photostock

import (
	"reflect"
	"testing"
)

func TestValidateImageName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"plain name", "sunset", "sunset", true},
		{"trimmed", "  IMG_01  ", "IMG_01", true},
		{"dashes and underscores", "a-b_c", "a-b_c", true},
		{"empty", "", "", false},
		{"dot", ".", "", false},
		{"dotdot", "..", "", false},
		{"slash", "a/b", "", false},
		{"backslash", `a\b`, "", false},
		{"with extension", "sunset.jpg", "", false},
		{"space inside", "a b", "", false},
		{"unicode", "café", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validateImageName(tt.input)
			if tt.ok {
				if err != nil {
					t.Fatalf("validateImageName(%q) error: %v", tt.input, err)
				}
				if got != tt.want {
					t.Errorf("validateImageName(%q) = %q, want %q", tt.input, got, tt.want)
				}
				return
			}
			if err == nil {
				t.Errorf("validateImageName(%q) = %q, want error", tt.input, got)
			}
		})
	}
}

func TestFindMatchingKeys(t *testing.T) {
	keys := []string{
		"sunset.jpg",
		"sunset.webp",
		"sunset.txt",
		"sunset_2.jpg",
		"folder/sunset.png",
		"Sunset.jpg",
	}

	t.Run("exact stem with allowed extensions only", func(t *testing.T) {
		got := findMatchingKeys("sunset", keys)
		want := []string{"sunset.jpg", "sunset.webp"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("findMatchingKeys = %v, want %v", got, want)
		}
	})

	t.Run("no match", func(t *testing.T) {
		if got := findMatchingKeys("missing", keys); len(got) != 0 {
			t.Errorf("findMatchingKeys = %v, want none", got)
		}
	})

	t.Run("case-insensitive extension, case-sensitive stem", func(t *testing.T) {
		got := findMatchingKeys("beach", []string{"beach.JPG", "BEACH.jpg"})
		want := []string{"beach.JPG"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("findMatchingKeys = %v, want %v", got, want)
		}
	})
}

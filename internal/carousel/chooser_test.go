package carousel

import (
	"errors"
	"testing"
)

func TestChooserSequentialRotation(t *testing.T) {
	index := map[string]string{
		"b": "b.jpg",
		"a": "a.jpg",
		"c": "c.jpg",
	}
	chooser := NewChooser()

	// Sorted basenames, wrapping around after the last one.
	want := []string{"a", "b", "c", "a"}
	for i, expected := range want {
		name, key, err := chooser.Choose(index, false)
		if err != nil {
			t.Fatalf("Choose #%d: %v", i, err)
		}
		if name != expected {
			t.Fatalf("Choose #%d = %q, want %q", i, name, expected)
		}
		if key != index[name] {
			t.Errorf("Choose #%d key = %q, want %q", i, key, index[name])
		}
	}
}

func TestChooserRandomDoesNotAdvanceCursor(t *testing.T) {
	index := map[string]string{"a": "a.jpg", "b": "b.jpg"}
	chooser := NewChooser()
	chooser.randIndex = func(n int) int { return n - 1 }

	name, _, err := chooser.Choose(index, true)
	if err != nil {
		t.Fatalf("random Choose: %v", err)
	}
	if name != "b" {
		t.Errorf("random Choose = %q, want injected last entry", name)
	}

	name, _, err = chooser.Choose(index, false)
	if err != nil {
		t.Fatalf("sequential Choose: %v", err)
	}
	if name != "a" {
		t.Errorf("sequential Choose after random = %q, want %q", name, "a")
	}
}

func TestChooserEmptyIndex(t *testing.T) {
	_, _, err := NewChooser().Choose(map[string]string{}, false)
	if !errors.Is(err, ErrEmptyIndex) {
		t.Fatalf("Choose on empty index = %v, want ErrEmptyIndex", err)
	}
}

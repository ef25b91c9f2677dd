package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNestedStoreRoundTrip(t *testing.T) {
	root := filepath.Join(t.TempDir(), "ClipboardItems")
	n, err := NewNested(root)
	if err != nil {
		t.Fatalf("NewNested() error = %v", err)
	}

	content := []byte("the quick brown fox")
	path, err := n.Store(bytes.NewReader(content), "item-1", "note.txt")
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if want := filepath.Join(root, "item-1", "note.txt"); path != want {
		t.Errorf("Store() path = %q, want %q", path, want)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("stored bytes = %q, want %q", got, content)
	}

	if !n.Exists("item-1", "note.txt") {
		t.Errorf("Exists() = false after Store()")
	}
	if n.Exists("item-2", "note.txt") {
		t.Errorf("Exists() = true for unknown id")
	}
}

func TestNestedRemove(t *testing.T) {
	root := filepath.Join(t.TempDir(), "ClipboardItems")
	n, err := NewNested(root)
	if err != nil {
		t.Fatalf("NewNested() error = %v", err)
	}

	if _, err := n.Store(strings.NewReader("x"), "item-1", "a.txt"); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	if err := n.Remove("item-1", "a.txt"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if n.Exists("item-1", "a.txt") {
		t.Errorf("Exists() = true after Remove()")
	}

	// The now-empty per-item directory is cleaned up too.
	if _, err := os.Stat(filepath.Join(root, "item-1")); !os.IsNotExist(err) {
		t.Errorf("item directory still present after Remove(): err = %v", err)
	}
	// But the collection root stays.
	if _, err := os.Stat(root); err != nil {
		t.Errorf("collection root removed: %v", err)
	}
}

func TestNestedRemoveMissing(t *testing.T) {
	n, err := NewNested(filepath.Join(t.TempDir(), "ClipboardItems"))
	if err != nil {
		t.Fatalf("NewNested() error = %v", err)
	}
	if err := n.Remove("never-stored", "a.txt"); err != nil {
		t.Errorf("Remove() on missing artifact = %v, want nil", err)
	}
}

func TestNestedList(t *testing.T) {
	root := filepath.Join(t.TempDir(), "ClipboardItems")
	n, err := NewNested(root)
	if err != nil {
		t.Fatalf("NewNested() error = %v", err)
	}

	for _, e := range []struct{ id, name string }{
		{"item-1", "a.txt"},
		{"item-2", "b.png"},
	} {
		if _, err := n.Store(strings.NewReader("x"), e.id, e.name); err != nil {
			t.Fatalf("Store(%s) error = %v", e.id, err)
		}
	}

	entries, err := n.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("List() returned %d entries, want 2", len(entries))
	}
	seen := make(map[string]string)
	for _, e := range entries {
		seen[e.ID] = e.FileName
	}
	if seen["item-1"] != "a.txt" || seen["item-2"] != "b.png" {
		t.Errorf("List() = %v", seen)
	}
}

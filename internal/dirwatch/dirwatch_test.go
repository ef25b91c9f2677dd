package dirwatch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"shelf-go/internal/shelf"
)

func TestWatcherSignalsOnChange(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, shelf.NewNopLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "dropped.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	select {
	case <-w.Events():
	case <-time.After(5 * time.Second):
		t.Fatalf("no change signal after file creation")
	}
}

func TestWatcherCoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, shelf.NewNopLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	for i := 0; i < 10; i++ {
		name := filepath.Join(dir, "file"+string(rune('a'+i))+".txt")
		if err := os.WriteFile(name, []byte("x"), 0644); err != nil {
			t.Fatalf("writing file: %v", err)
		}
	}

	select {
	case <-w.Events():
	case <-time.After(5 * time.Second):
		t.Fatalf("no change signal after burst")
	}

	// Let the remaining events flush, then check the backlog: the channel is
	// 1-buffered, so a settled burst leaves at most one pending signal.
	time.Sleep(500 * time.Millisecond)
	pending := 0
	for {
		select {
		case <-w.Events():
			pending++
		default:
			if pending > 1 {
				t.Errorf("burst left %d pending signals, want at most 1", pending)
			}
			return
		}
	}
}

func TestWatcherMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "does-not-exist"), shelf.NewNopLogger())
	if err == nil {
		t.Fatalf("New() = nil error for missing directory")
	}
}

package shelf

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestFileRef(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	if err := os.WriteFile(path, []byte("%PDF"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	ref := FileRef(path)
	if ref.FileName != "report.pdf" {
		t.Errorf("FileName = %q, want base name", ref.FileName)
	}
	rc, err := ref.Open()
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("reading: %v", err)
	}
	if string(data) != "%PDF" {
		t.Errorf("content = %q", data)
	}
}

func TestFileRefMissing(t *testing.T) {
	ref := FileRef(filepath.Join(t.TempDir(), "gone.txt"))
	if _, err := ref.Open(); err == nil {
		t.Errorf("Open() = nil error for missing file")
	}
}

func TestTextRef(t *testing.T) {
	ref := TextRef("snippet.txt", "hello")
	if !ref.Textual {
		t.Errorf("Textual = false, want true")
	}
	rc, err := ref.Open()
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "hello" {
		t.Errorf("content = %q", data)
	}
}

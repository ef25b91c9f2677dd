package config

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig("/home/user/.local/share/shelf")

	if cfg.Database.Type != "sqlite" {
		t.Errorf("Database.Type = %q, want sqlite", cfg.Database.Type)
	}
	if cfg.Tray.Layout != "flat" {
		t.Errorf("Tray.Layout = %q, want flat", cfg.Tray.Layout)
	}
	if want := filepath.Join("/home/user/.local/share/shelf", "CopiedItems"); cfg.Tray.Root != want {
		t.Errorf("Tray.Root = %q, want %q", cfg.Tray.Root, want)
	}
	if cfg.Clipboard.Layout != "nested" {
		t.Errorf("Clipboard.Layout = %q, want nested", cfg.Clipboard.Layout)
	}
	if want := filepath.Join("/home/user/.local/share/shelf", "ClipboardItems"); cfg.Clipboard.Root != want {
		t.Errorf("Clipboard.Root = %q, want %q", cfg.Clipboard.Root, want)
	}
	if cfg.Watch.PollIntervalSeconds != 2 {
		t.Errorf("PollIntervalSeconds = %d, want 2", cfg.Watch.PollIntervalSeconds)
	}
	if cfg.Watch.SweepIntervalSeconds != 300 {
		t.Errorf("SweepIntervalSeconds = %d, want 300", cfg.Watch.SweepIntervalSeconds)
	}
}

func TestManagerRoundTrip(t *testing.T) {
	cfg := NewConfig("/tmp/shelf-test")
	cfg.Watch.Ignore = []string{"*.tmp", "*.partial"}

	m := &Manager{}
	var buf bytes.Buffer
	if err := m.Write(&buf, cfg); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.BaseDir != cfg.BaseDir {
		t.Errorf("BaseDir = %q, want %q", got.BaseDir, cfg.BaseDir)
	}
	if got.Database != cfg.Database {
		t.Errorf("Database = %+v, want %+v", got.Database, cfg.Database)
	}
	if got.Tray != cfg.Tray || got.Clipboard != cfg.Clipboard {
		t.Errorf("collections = %+v %+v", got.Tray, got.Clipboard)
	}
	if len(got.Watch.Ignore) != 2 || got.Watch.Ignore[0] != "*.tmp" {
		t.Errorf("Watch.Ignore = %v", got.Watch.Ignore)
	}
}

func TestManagerReadInvalid(t *testing.T) {
	m := &Manager{}
	if _, err := m.Read(strings.NewReader("this is not [valid toml")); err == nil {
		t.Errorf("Read() = nil error on invalid TOML")
	}
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "shelf.toml")
	cfg := NewConfig("/tmp/shelf-test")

	if err := Init(path, cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	got, err := ReadFromFile(path)
	if err != nil {
		t.Fatalf("ReadFromFile() error = %v", err)
	}
	if got.BaseDir != cfg.BaseDir {
		t.Errorf("BaseDir = %q, want %q", got.BaseDir, cfg.BaseDir)
	}

	// A second Init must refuse to clobber the existing file.
	if err := Init(path, cfg); err == nil {
		t.Errorf("Init() = nil error on existing config, want error")
	}
}

func TestReadFromFileMissing(t *testing.T) {
	if _, err := ReadFromFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Errorf("ReadFromFile() = nil error for missing file")
	}
}

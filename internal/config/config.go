package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for shelf.
type Config struct {
	BaseDir   string           `toml:"base_dir"`
	LogDir    string           `toml:"log_dir"`
	Database  DatabaseConfig   `toml:"database"`
	Tray      CollectionConfig `toml:"tray"`
	Clipboard CollectionConfig `toml:"clipboard"`
	Watch     WatchConfig      `toml:"watch"`
}

// CollectionConfig holds the storage settings for one item collection.
// This uses a tagged union pattern - the Layout field determines how
// artifacts are laid out under Root.
type CollectionConfig struct {
	Layout string `toml:"layout"`         // "nested", "flat", or "memory"
	Root   string `toml:"root,omitempty"` // defaults to <base_dir>/<well-known name>
}

// DatabaseConfig represents configuration for the metadata database.
// This uses a tagged union pattern - the Type field determines which other
// fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// WatchConfig holds the external change watcher settings.
type WatchConfig struct {
	PollIntervalSeconds  int      `toml:"poll_interval_seconds"`  // pasteboard poll; default 2
	SweepIntervalSeconds int      `toml:"sweep_interval_seconds"` // retention sweep; default 300
	Ignore               []string `toml:"ignore"`                 // extra tray entries to skip
}

// NewConfig creates a new Config with the provided base directory and
// default collection layouts: the tray is flat (its directory is the
// user-visible drop target), clipboard history is nested per item id.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
		Tray: CollectionConfig{
			Layout: "flat",
			Root:   filepath.Join(baseDir, "CopiedItems"),
		},
		Clipboard: CollectionConfig{
			Layout: "nested",
			Root:   filepath.Join(baseDir, "ClipboardItems"),
		},
		Watch: WatchConfig{
			PollIntervalSeconds:  2,
			SweepIntervalSeconds: 300,
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
// This is an internal helper and should not be exported.
func writeToFile(path string, cfg *Config) error {
	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}

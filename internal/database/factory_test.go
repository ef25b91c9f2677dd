package database

import (
	"testing"

	"shelf-go/internal/config"
)

func TestNewDatabaseFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.DatabaseConfig
		wantErr bool
	}{
		{"memory", config.DatabaseConfig{Type: "memory"}, false},
		{"sqlite", config.DatabaseConfig{Type: "sqlite", DataDir: t.TempDir()}, false},
		{"sqlite without data dir", config.DatabaseConfig{Type: "sqlite"}, true},
		{"unknown type", config.DatabaseConfig{Type: "postgres"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := NewDatabaseFromConfig(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewDatabaseFromConfig() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewDatabaseFromConfig() error = %v", err)
			}
			defer db.Close()
		})
	}
}

// Package database persists item metadata and runtime settings in SQLite,
// with an in-memory implementation for tests.
package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"shelf-go/internal/database/migrations"
	"shelf-go/internal/shelf"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteDatabase implements the shelf.Database interface using SQLite.
type SQLiteDatabase struct {
	db   *sql.DB
	path string
}

// NewSQLiteDatabase opens (creating if needed) the SQLite database at path
// and brings the schema to the latest version.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	// Catches a database created by a newer binary, which MigrateUp alone
	// would silently accept.
	if err := migrations.CheckDBMigrationStatus(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("verifying schema version: %w", err)
	}

	return &SQLiteDatabase{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite database connection with
// appropriate PRAGMAs. path can be a file path or ":memory:".
func OpenConnection(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// The watcher and CLI can touch the database concurrently; wait for
	// locks rather than failing immediately.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// LoadItems returns all items of a collection ordered by position ascending.
func (s *SQLiteDatabase) LoadItems(collection shelf.Collection) ([]shelf.StoredItem, error) {
	rows, err := s.db.Query(`
		SELECT id, file_name, size, copied_at, item_type, preview_text,
		       preview_image, pinned, labels, source_app, device_type, position
		FROM items WHERE collection = ? ORDER BY position ASC`,
		string(collection))
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var out []shelf.StoredItem
	for rows.Next() {
		var (
			it       shelf.Item
			copiedAt int64
			pinned   int64
			labels   []byte
			position int64
		)
		err := rows.Scan(&it.ID, &it.FileName, &it.Size, &copiedAt, &it.Type,
			&it.PreviewText, &it.PreviewImage, &pinned, &labels,
			&it.SourceApp, &it.DeviceType, &position)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		it.CopiedAt = time.Unix(0, copiedAt).UTC()
		it.Pinned = pinned != 0
		if err := json.Unmarshal(labels, &it.Labels); err != nil {
			return nil, fmt.Errorf("decoding labels for %s: %w", it.ID, err)
		}
		out = append(out, shelf.StoredItem{Item: &it, Position: position})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}
	return out, nil
}

// UpsertItem inserts or replaces an item at the given position.
func (s *SQLiteDatabase) UpsertItem(collection shelf.Collection, item *shelf.Item, position int64) error {
	labels, err := json.Marshal(item.Labels)
	if err != nil {
		return fmt.Errorf("encoding labels: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO items (id, collection, file_name, size, copied_at, item_type,
		                   preview_text, preview_image, pinned, labels,
		                   source_app, device_type, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			file_name = excluded.file_name,
			size = excluded.size,
			copied_at = excluded.copied_at,
			item_type = excluded.item_type,
			preview_text = excluded.preview_text,
			preview_image = excluded.preview_image,
			pinned = excluded.pinned,
			labels = excluded.labels,
			source_app = excluded.source_app,
			device_type = excluded.device_type,
			position = excluded.position`,
		item.ID, string(collection), item.FileName, item.Size,
		item.CopiedAt.UnixNano(), string(item.Type), item.PreviewText,
		item.PreviewImage, boolToInt(item.Pinned), string(labels),
		item.SourceApp, item.DeviceType, position)
	if err != nil {
		return fmt.Errorf("upserting item %s: %w", item.ID, err)
	}
	return nil
}

// DeleteItem removes an item's metadata. Missing ids are not an error.
func (s *SQLiteDatabase) DeleteItem(collection shelf.Collection, id string) error {
	_, err := s.db.Exec(`DELETE FROM items WHERE collection = ? AND id = ?`,
		string(collection), id)
	if err != nil {
		return fmt.Errorf("deleting item %s: %w", id, err)
	}
	return nil
}

// GetSetting returns the value stored under key, and whether it was set.
func (s *SQLiteDatabase) GetSetting(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading setting %s: %w", key, err)
	}
	return value, true, nil
}

// SetSetting stores value under key, replacing any previous value.
func (s *SQLiteDatabase) SetSetting(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("writing setting %s: %w", key, err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// Compile-time check that SQLiteDatabase implements shelf.Database interface
var _ shelf.Database = (*SQLiteDatabase)(nil)

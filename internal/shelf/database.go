package shelf

// StoredItem pairs an item with its persisted raw-order position.
// Smaller positions are closer to the front (more recently inserted).
type StoredItem struct {
	Item     *Item
	Position int64
}

// Database persists item metadata and runtime settings. The in-memory Store
// is the system of record while the process runs; the database restores raw
// insertion order at startup and is written through on every mutation.
type Database interface {
	// LoadItems returns all items of a collection ordered by position ascending.
	LoadItems(collection Collection) ([]StoredItem, error)

	// UpsertItem inserts or replaces an item at the given position.
	UpsertItem(collection Collection, item *Item, position int64) error

	// DeleteItem removes an item's metadata. Missing ids are not an error.
	DeleteItem(collection Collection, id string) error

	// GetSetting returns the value stored under key, and whether it was set.
	GetSetting(key string) (string, bool, error)

	// SetSetting stores value under key, replacing any previous value.
	SetSetting(key, value string) error

	Close() error
}

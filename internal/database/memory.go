package database

import (
	"sort"
	"sync"

	"shelf-go/internal/shelf"
)

// MemoryDatabase is an in-memory implementation of the shelf.Database
// interface, useful for testing. Safe for concurrent use.
type MemoryDatabase struct {
	mu       sync.RWMutex
	items    map[shelf.Collection]map[string]shelf.StoredItem
	settings map[string]string
}

// NewMemoryDatabase creates an empty in-memory database.
func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{
		items:    make(map[shelf.Collection]map[string]shelf.StoredItem),
		settings: make(map[string]string),
	}
}

func (m *MemoryDatabase) LoadItems(collection shelf.Collection) ([]shelf.StoredItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]shelf.StoredItem, 0, len(m.items[collection]))
	for _, st := range m.items[collection] {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *MemoryDatabase) UpsertItem(collection shelf.Collection, item *shelf.Item, position int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.items[collection] == nil {
		m.items[collection] = make(map[string]shelf.StoredItem)
	}
	dup := *item
	m.items[collection][item.ID] = shelf.StoredItem{Item: &dup, Position: position}
	return nil
}

func (m *MemoryDatabase) DeleteItem(collection shelf.Collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items[collection], id)
	return nil
}

func (m *MemoryDatabase) GetSetting(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.settings[key]
	return v, ok, nil
}

func (m *MemoryDatabase) SetSetting(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[key] = value
	return nil
}

func (m *MemoryDatabase) Close() error { return nil }

// Compile-time check that MemoryDatabase implements shelf.Database interface
var _ shelf.Database = (*MemoryDatabase)(nil)

package shelf

import (
	"fmt"
	"sort"
	"sync"
)

// Store is the ordered, id-unique in-memory collection of items for one
// collection, and the single writer of that collection. Raw order is
// most-recent-first insertion order; the displayed projection additionally
// sorts pinned items ahead of unpinned ones.
//
// All mutations funnel through the store's mutex — this is the single
// serialization point. Every mutation is written through to the Database so
// the collection survives restarts; the backing Storage is driven only from
// here (create on ingest, delete on remove).
type Store struct {
	collection Collection
	db         Database
	storage    Storage
	logger     Logger

	// dedupeByName skips inserts whose file name is already present. Used by
	// the tray, where redundant filesystem events would otherwise produce
	// visual duplicates.
	dedupeByName bool

	mu       sync.Mutex
	order    []string // raw order, front (most recent) first
	items    map[string]*Item
	pos      map[string]int64 // persisted raw-order position per id
	frontPos int64            // smallest position handed out so far
}

// NewStore creates an empty store. Call Load to restore persisted items.
func NewStore(collection Collection, db Database, storage Storage, logger Logger, dedupeByName bool) *Store {
	return &Store{
		collection:   collection,
		db:           db,
		storage:      storage,
		logger:       logger,
		dedupeByName: dedupeByName,
		items:        make(map[string]*Item),
		pos:          make(map[string]int64),
	}
}

// Collection returns the collection this store holds.
func (s *Store) Collection() Collection { return s.collection }

// Storage returns the storage adapter backing this store's artifacts.
func (s *Store) Storage() Storage { return s.storage }

// Load restores the persisted collection, replacing any in-memory state.
func (s *Store) Load() error {
	stored, err := s.db.LoadItems(s.collection)
	if err != nil {
		return fmt.Errorf("loading %s items: %w", s.collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = s.order[:0]
	s.items = make(map[string]*Item, len(stored))
	s.pos = make(map[string]int64, len(stored))
	s.frontPos = 0
	for i, st := range stored {
		if _, dup := s.items[st.Item.ID]; dup {
			continue
		}
		s.order = append(s.order, st.Item.ID)
		s.items[st.Item.ID] = st.Item
		s.pos[st.Item.ID] = st.Position
		if i == 0 {
			s.frontPos = st.Position
		}
	}
	return nil
}

// Insert adds items to the front of the collection, preserving the batch
// order relative to each other. An item whose id already exists is updated
// in place at its original position. When dedupeByName is set, items whose
// file name is already present are skipped entirely.
func (s *Store) Insert(items ...*Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var fresh []*Item
	for _, it := range items {
		if _, exists := s.items[it.ID]; exists {
			cp := it.clone()
			s.items[it.ID] = cp
			if err := s.db.UpsertItem(s.collection, cp, s.pos[it.ID]); err != nil {
				return fmt.Errorf("persisting item %s: %w", it.ID, err)
			}
			continue
		}
		if s.dedupeByName && (s.hasFileName(it.FileName) || hasFileName(fresh, it.FileName)) {
			s.logger.Debug("skipping duplicate file name", "file", it.FileName)
			continue
		}
		fresh = append(fresh, it.clone())
	}
	if len(fresh) == 0 {
		return nil
	}

	base := s.frontPos - int64(len(fresh))
	ids := make([]string, len(fresh))
	for i, it := range fresh {
		p := base + int64(i)
		if err := s.db.UpsertItem(s.collection, it, p); err != nil {
			return fmt.Errorf("persisting item %s: %w", it.ID, err)
		}
		s.items[it.ID] = it
		s.pos[it.ID] = p
		ids[i] = it.ID
	}
	s.order = append(ids, s.order...)
	s.frontPos = base
	return nil
}

// Remove deletes the item and its backing artifact. Unknown ids are a no-op.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[id]
	if !ok {
		return nil
	}
	if err := s.storage.Remove(it.ID, it.FileName); err != nil {
		return fmt.Errorf("removing artifact for %s: %w", id, err)
	}
	return s.drop(id)
}

// Forget deletes the item's metadata without touching storage. Used when the
// backing artifact is already gone (filesystem reconciliation, expiry of
// orphaned items).
func (s *Store) Forget(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return nil
	}
	return s.drop(id)
}

// RemoveAll removes every item through the per-item path, so each item's
// storage is cleaned up individually.
func (s *Store) RemoveAll() error {
	for _, id := range s.ids() {
		if err := s.Remove(id); err != nil {
			return err
		}
	}
	return nil
}

// TogglePin flips the pinned flag. Unknown ids are a no-op.
func (s *Store) TogglePin(id string) error {
	return s.update(id, func(it *Item) { it.Pinned = !it.Pinned })
}

// AddLabel adds a label to the item's label set.
func (s *Store) AddLabel(id, label string) error {
	return s.update(id, func(it *Item) { it.addLabel(label) })
}

// RemoveLabel removes a label from the item's label set.
func (s *Store) RemoveLabel(id, label string) error {
	return s.update(id, func(it *Item) { it.removeLabel(label) })
}

// Get returns a copy of the item with the given id.
func (s *Store) Get(id string) (*Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[id]
	if !ok {
		return nil, false
	}
	return it.clone(), true
}

// Items returns the sorted projection: pinned items first, then unpinned;
// within each group, descending CopiedAt. The returned items are copies.
func (s *Store) Items() []*Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Item, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id].clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Pinned != out[j].Pinned {
			return out[i].Pinned
		}
		return out[i].CopiedAt.After(out[j].CopiedAt)
	})
	return out
}

// Len returns the number of items in the collection.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// IsEmpty reports whether the collection has no items.
func (s *Store) IsEmpty() bool { return s.Len() == 0 }

// update looks up the item, applies fn, and writes the result through.
func (s *Store) update(id string, fn func(*Item)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[id]
	if !ok {
		return nil
	}
	fn(it)
	if err := s.db.UpsertItem(s.collection, it, s.pos[id]); err != nil {
		return fmt.Errorf("persisting item %s: %w", id, err)
	}
	return nil
}

// drop removes metadata for id. Caller holds s.mu.
func (s *Store) drop(id string) error {
	if err := s.db.DeleteItem(s.collection, id); err != nil {
		return fmt.Errorf("deleting item %s: %w", id, err)
	}
	delete(s.items, id)
	delete(s.pos, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// ids returns a snapshot of the raw-order id list.
func (s *Store) ids() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// hasFileName reports whether any stored item uses the file name.
// Caller holds s.mu.
func (s *Store) hasFileName(name string) bool {
	for _, it := range s.items {
		if it.FileName == name {
			return true
		}
	}
	return false
}

func hasFileName(items []*Item, name string) bool {
	for _, it := range items {
		if it.FileName == name {
			return true
		}
	}
	return false
}

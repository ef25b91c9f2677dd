package shelf

import (
	"slices"
	"strings"
	"time"
)

// Collection identifies one of the two item collections.
type Collection string

const (
	// CollectionTray holds files the user dropped onto the shelf.
	CollectionTray Collection = "tray"
	// CollectionClipboard holds captured clipboard history.
	CollectionClipboard Collection = "clipboard"
)

// StorageRoot returns the well-known storage subdirectory name for the collection.
func (c Collection) StorageRoot() string {
	switch c {
	case CollectionClipboard:
		return "ClipboardItems"
	default:
		return "CopiedItems"
	}
}

// ItemType classifies an item's content.
type ItemType string

const (
	TypeFile  ItemType = "file"
	TypeText  ItemType = "text"
	TypeImage ItemType = "image"
	TypeLink  ItemType = "link"
	TypeColor ItemType = "color"
)

// Item is one persisted record: a dropped file or a clipboard capture.
// Everything except Pinned and Labels is immutable after creation.
type Item struct {
	ID           string
	FileName     string
	Size         int64
	CopiedAt     time.Time // ingestion time; drives recency ordering and expiry
	Type         ItemType
	PreviewText  string // truncated snippet for text/link/color; empty for binary types
	PreviewImage []byte // small PNG thumbnail, derived once at creation
	Pinned       bool
	Labels       []string // free-form label set, seeded at creation
	SourceApp    string
	DeviceType   string
}

// HasLabel reports whether the item carries the given label (exact match).
func (it *Item) HasLabel(label string) bool {
	return slices.Contains(it.Labels, label)
}

// addLabel appends the label if not already present, preserving order.
func (it *Item) addLabel(label string) {
	if label == "" || it.HasLabel(label) {
		return
	}
	it.Labels = append(it.Labels, label)
}

// removeLabel deletes the label if present.
func (it *Item) removeLabel(label string) {
	it.Labels = slices.DeleteFunc(it.Labels, func(l string) bool { return l == label })
}

// Matches reports whether the item matches the free-text search query.
// An item matches iff the query is empty or is a case-insensitive substring
// of the file name, the preview text, or any label.
func (it *Item) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(it.FileName), q) {
		return true
	}
	if strings.Contains(strings.ToLower(it.PreviewText), q) {
		return true
	}
	for _, l := range it.Labels {
		if strings.Contains(strings.ToLower(l), q) {
			return true
		}
	}
	return false
}

// clone returns a deep copy so callers cannot mutate store-owned state.
func (it *Item) clone() *Item {
	dup := *it
	dup.Labels = slices.Clone(it.Labels)
	dup.PreviewImage = slices.Clone(it.PreviewImage)
	return &dup
}

// Filter returns the items matching the search query and the type facet
// selection. An empty type selection means all types. The input order is
// preserved; the input slice is not modified.
func Filter(items []*Item, query string, types []ItemType) []*Item {
	var out []*Item
	for _, it := range items {
		if !it.Matches(query) {
			continue
		}
		if len(types) > 0 && !slices.Contains(types, it.Type) {
			continue
		}
		out = append(out, it)
	}
	return out
}

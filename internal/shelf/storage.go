package shelf

import "io"

// StorageEntry describes one artifact found on disk during reconciliation.
type StorageEntry struct {
	ID       string // empty for flat layouts
	FileName string
	Path     string
}

// Storage owns the on-disk artifacts backing a collection's items. It is
// driven only by the Store's lifecycle events; out-of-band changes are fed
// back through the external change watcher.
type Storage interface {
	// Store copies the source content into the artifact location for
	// (id, fileName) and returns the artifact path.
	Store(src io.Reader, id, fileName string) (string, error)

	// Path returns the deterministic artifact path for (id, fileName).
	Path(id, fileName string) string

	// Exists reports whether the artifact for (id, fileName) is on disk.
	Exists(id, fileName string) bool

	// Remove deletes the artifact. A missing artifact is not an error.
	// Now-empty ancestor directories are removed up to (not including) the
	// collection root.
	Remove(id, fileName string) error

	// List enumerates the artifacts currently on disk.
	List() ([]StorageEntry, error)

	// Root returns the collection root directory.
	Root() string
}

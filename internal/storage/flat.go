package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"shelf-go/internal/shelf"
)

// Flat stores artifacts directly under the root as <root>/<fileName>,
// ignoring the item id. File name collisions are acceptable here: a copy is
// skipped when the destination already exists. Used by the tray, whose
// directory is itself user-visible and watched for out-of-band changes.
type Flat struct {
	root string
}

// NewFlat creates a flat store rooted at the given path.
func NewFlat(root string) (*Flat, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating storage root: %w", err)
	}
	return &Flat{root: root}, nil
}

func (f *Flat) Root() string { return f.root }

// Path returns <root>/<fileName>; the id does not participate.
func (f *Flat) Path(_, fileName string) string {
	return filepath.Join(f.root, fileName)
}

// Exists reports whether the artifact is on disk.
func (f *Flat) Exists(_, fileName string) bool {
	info, err := os.Stat(f.Path("", fileName))
	return err == nil && !info.IsDir()
}

// Store copies the source to <root>/<fileName>. If the destination already
// exists the copy is skipped and the existing artifact is kept.
func (f *Flat) Store(src io.Reader, _, fileName string) (string, error) {
	dest := f.Path("", fileName)
	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}
	if err := writeFile(dest, src); err != nil {
		return "", err
	}
	return dest, nil
}

// Remove deletes <root>/<fileName>. A missing artifact is not an error.
// There are no per-item directories to clean up.
func (f *Flat) Remove(_, fileName string) error {
	if err := os.Remove(f.Path("", fileName)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing artifact: %w", err)
	}
	return nil
}

// List enumerates the files directly under the root. Directories are skipped.
func (f *Flat) List() ([]shelf.StorageEntry, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("listing storage root: %w", err)
	}
	var out []shelf.StorageEntry
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		out = append(out, shelf.StorageEntry{
			FileName: e.Name(),
			Path:     filepath.Join(f.root, e.Name()),
		})
	}
	return out, nil
}

// Compile-time check that Flat implements the shelf.Storage interface
var _ shelf.Storage = (*Flat)(nil)

// Package storage implements the on-disk artifact store backing each item
// collection. Artifacts are addressed deterministically: the nested layout
// uses <root>/<id>/<fileName>, the flat layout <root>/<fileName>.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"shelf-go/internal/shelf"
)

// Nested stores one artifact per item under <root>/<id>/<fileName>.
type Nested struct {
	root string
}

// NewNested creates a nested store rooted at the given path.
func NewNested(root string) (*Nested, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating storage root: %w", err)
	}
	return &Nested{root: root}, nil
}

func (n *Nested) Root() string { return n.root }

// Path returns <root>/<id>/<fileName>.
func (n *Nested) Path(id, fileName string) string {
	return filepath.Join(n.root, id, fileName)
}

// Exists reports whether the artifact is on disk.
func (n *Nested) Exists(id, fileName string) bool {
	info, err := os.Stat(n.Path(id, fileName))
	return err == nil && !info.IsDir()
}

// Store copies the source into the artifact location, creating the per-item
// directory if absent. On failure the partial directory is not cleaned up
// here; cleanup happens through Remove.
func (n *Nested) Store(src io.Reader, id, fileName string) (string, error) {
	dir := filepath.Join(n.root, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating item directory: %w", err)
	}
	dest := filepath.Join(dir, fileName)
	if err := writeFile(dest, src); err != nil {
		return "", err
	}
	return dest, nil
}

// Remove deletes the artifact, then walks upward deleting now-empty
// ancestor directories until reaching the collection root or a non-empty
// directory. A missing artifact is not an error.
func (n *Nested) Remove(id, fileName string) error {
	path := n.Path(id, fileName)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing artifact: %w", err)
	}
	return removeEmptyAncestors(filepath.Dir(path), n.root)
}

// List enumerates artifacts as <id>/<fileName> pairs. Stray files directly
// under the root are skipped; so is anything deeper than one level.
func (n *Nested) List() ([]shelf.StorageEntry, error) {
	dirs, err := os.ReadDir(n.root)
	if err != nil {
		return nil, fmt.Errorf("listing storage root: %w", err)
	}
	var out []shelf.StorageEntry
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(n.root, d.Name()))
		if err != nil {
			return nil, fmt.Errorf("listing item directory %s: %w", d.Name(), err)
		}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			out = append(out, shelf.StorageEntry{
				ID:       d.Name(),
				FileName: f.Name(),
				Path:     filepath.Join(n.root, d.Name(), f.Name()),
			})
		}
	}
	return out, nil
}

// removeEmptyAncestors deletes dir and its parents while they are empty,
// stopping at (and never removing) root.
func removeEmptyAncestors(dir, root string) error {
	root = filepath.Clean(root)
	for {
		dir = filepath.Clean(dir)
		if dir == root || !strings.HasPrefix(dir, root+string(os.PathSeparator)) {
			return nil
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				dir = filepath.Dir(dir)
				continue
			}
			return fmt.Errorf("reading directory %s: %w", dir, err)
		}
		if len(entries) > 0 {
			return nil
		}
		if err := os.Remove(dir); err != nil {
			return fmt.Errorf("removing empty directory %s: %w", dir, err)
		}
		dir = filepath.Dir(dir)
	}
}

// writeFile copies src to destPath via a temp file and atomic rename.
func writeFile(destPath string, src io.Reader) error {
	dir := filepath.Dir(destPath)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return fmt.Errorf("writing artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	success = true
	return nil
}

// Compile-time check that Nested implements the shelf.Storage interface
var _ shelf.Storage = (*Nested)(nil)

package storage

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"shelf-go/internal/shelf"
)

// Memory is an in-memory implementation of the shelf.Storage interface.
// It is useful for testing. Safe for concurrent use.
type Memory struct {
	mu        sync.RWMutex
	artifacts map[string][]byte // "<id>/<fileName>" -> content
	failWrite bool
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{artifacts: make(map[string][]byte)}
}

// FailWrites makes subsequent Store calls fail. For testing error paths.
func (m *Memory) FailWrites(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrite = fail
}

func key(id, fileName string) string { return id + "/" + fileName }

func (m *Memory) Root() string { return "memory:" }

func (m *Memory) Path(id, fileName string) string {
	return "memory:/" + key(id, fileName)
}

func (m *Memory) Exists(id, fileName string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.artifacts[key(id, fileName)]
	return ok
}

func (m *Memory) Store(src io.Reader, id, fileName string) (string, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("reading content: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return "", fmt.Errorf("write disabled")
	}
	m.artifacts[key(id, fileName)] = data
	return m.Path(id, fileName), nil
}

func (m *Memory) Remove(id, fileName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.artifacts, key(id, fileName))
	return nil
}

func (m *Memory) List() ([]shelf.StorageEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.artifacts))
	for k := range m.artifacts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]shelf.StorageEntry, 0, len(keys))
	for _, k := range keys {
		id, name, _ := strings.Cut(k, "/")
		out = append(out, shelf.StorageEntry{
			ID:       id,
			FileName: name,
			Path:     "memory:/" + k,
		})
	}
	return out, nil
}

// Content returns the stored bytes for an artifact. For test assertions.
func (m *Memory) Content(id, fileName string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.artifacts[key(id, fileName)]
	return data, ok
}

// Compile-time check that Memory implements the shelf.Storage interface
var _ shelf.Storage = (*Memory)(nil)

// Package pasteboard implements the shelf.Pasteboard interface over the OS
// clipboard via golang.design/x/clipboard. The OS offers no change
// notification to unprivileged observers, so change detection is derived:
// ChangeCount fingerprints the current contents and bumps a counter when
// the fingerprint moves.
package pasteboard

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"golang.design/x/clipboard"

	"shelf-go/internal/shelf"
)

// System reads the OS pasteboard. Safe for concurrent use.
type System struct {
	mu       sync.Mutex
	lastHash string
	count    int64
}

// NewSystem initializes the OS clipboard backend. Fails on headless systems
// where no clipboard is available; callers may fall back to NewNull.
func NewSystem() (*System, error) {
	if err := clipboard.Init(); err != nil {
		return nil, fmt.Errorf("initializing clipboard: %w", err)
	}
	return &System{}, nil
}

// ChangeCount returns a counter that increases whenever the pasteboard
// contents change between calls.
func (s *System) ChangeCount() (int64, error) {
	text := clipboard.Read(clipboard.FmtText)
	img := clipboard.Read(clipboard.FmtImage)

	h := sha256.New()
	h.Write(text)
	h.Write([]byte{0})
	h.Write(img)
	hash := hex.EncodeToString(h.Sum(nil))

	s.mu.Lock()
	defer s.mu.Unlock()
	if hash != s.lastHash {
		s.lastHash = hash
		s.count++
	}
	return s.count, nil
}

// Read returns the current pasteboard contents. Text wins over an image
// when both are present. File lists are not exposed by the underlying
// library and never appear from this backend.
func (s *System) Read() (shelf.PasteboardContent, error) {
	if text := clipboard.Read(clipboard.FmtText); len(text) > 0 {
		return shelf.PasteboardContent{Kind: shelf.PasteboardText, Text: string(text)}, nil
	}
	if img := clipboard.Read(clipboard.FmtImage); len(img) > 0 {
		return shelf.PasteboardContent{Kind: shelf.PasteboardImage, Image: img}, nil
	}
	return shelf.PasteboardContent{Kind: shelf.PasteboardEmpty}, nil
}

// Null is a pasteboard that is always empty. Used on headless systems where
// clipboard initialization fails, so the rest of the watcher keeps working.
type Null struct{}

func NewNull() *Null { return &Null{} }

func (*Null) ChangeCount() (int64, error) { return 0, nil }

func (*Null) Read() (shelf.PasteboardContent, error) {
	return shelf.PasteboardContent{Kind: shelf.PasteboardEmpty}, nil
}

// Compile-time checks that both backends implement shelf.Pasteboard
var (
	_ shelf.Pasteboard = (*System)(nil)
	_ shelf.Pasteboard = (*Null)(nil)
)

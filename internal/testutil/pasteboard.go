package testutil

import (
	"sync"

	"shelf-go/internal/shelf"
)

// StubPasteboard is a scriptable in-memory pasteboard. Tests set the
// contents; each Set bumps the change count, mirroring how the OS
// pasteboard behaves. Safe for concurrent use.
type StubPasteboard struct {
	mu      sync.Mutex
	count   int64
	content shelf.PasteboardContent
	readErr error
}

func NewStubPasteboard() *StubPasteboard {
	return &StubPasteboard{content: shelf.PasteboardContent{Kind: shelf.PasteboardEmpty}}
}

// Set replaces the pasteboard contents and increments the change count.
func (p *StubPasteboard) Set(content shelf.PasteboardContent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.content = content
	p.count++
}

// SetText is a convenience for scripting a text payload.
func (p *StubPasteboard) SetText(text string) {
	p.Set(shelf.PasteboardContent{Kind: shelf.PasteboardText, Text: text})
}

// FailReads makes subsequent Read calls return err (nil to clear).
func (p *StubPasteboard) FailReads(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readErr = err
}

func (p *StubPasteboard) ChangeCount() (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count, nil
}

func (p *StubPasteboard) Read() (shelf.PasteboardContent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.readErr != nil {
		return shelf.PasteboardContent{}, p.readErr
	}
	return p.content, nil
}

// Compile-time check that StubPasteboard implements shelf.Pasteboard
var _ shelf.Pasteboard = (*StubPasteboard)(nil)

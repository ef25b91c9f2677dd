package shelf

import (
	"bytes"
	"io"
	"os"
	"strings"
)

// ExternalRef is an opaque external content reference handed to the
// ingestion pipeline: a dropped file, a pasteboard read, or a cross-device
// payload. It resolves to a readable byte stream plus a file name hint and
// an optional explicit type hint.
type ExternalRef struct {
	// ID adopts an existing artifact identity instead of minting a new one.
	// Set by tray reconciliation so an artifact already laid out on disk
	// keeps its location; "" means a fresh item.
	ID string

	FileName   string
	TypeHint   ItemType // "" means no hint; classification inspects content
	Textual    bool     // content is inline text, not a file reference
	SourceApp  string
	DeviceType string

	// Open resolves the reference to its content stream.
	Open func() (io.ReadCloser, error)
}

// FileRef returns a reference to a local file.
func FileRef(path string) ExternalRef {
	name := path
	if i := strings.LastIndexByte(path, os.PathSeparator); i >= 0 {
		name = path[i+1:]
	}
	return ExternalRef{
		FileName: name,
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

// TextRef returns a reference to an inline text snippet.
func TextRef(fileName, content string) ExternalRef {
	return ExternalRef{
		FileName: fileName,
		Textual:  true,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

// BytesRef returns a reference to an in-memory binary payload.
func BytesRef(fileName string, data []byte) ExternalRef {
	return ExternalRef{
		FileName: fileName,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

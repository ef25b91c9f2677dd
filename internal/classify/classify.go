// Package classify inspects raw content and assigns an item type plus
// derived previews: a truncated text snippet for textual content, a small
// PNG thumbnail for everything else.
package classify

import (
	"path/filepath"
	"regexp"
	"strings"

	"shelf-go/internal/shelf"
)

// Thumbnail edge caps per collection. Neither thumbnail dimension exceeds
// the cap; aspect ratio is preserved.
const (
	TrayThumbnailEdge      = 128
	ClipboardThumbnailEdge = 64
)

// previewTextLimit caps the preview snippet length in characters.
const previewTextLimit = 50

// colorPattern matches a strict #RGB or #RRGGBB hex color.
var colorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// imageExtensions are the file extensions classified as images.
var imageExtensions = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true,
}

// Classifier assigns item types and derives previews. One instance per
// collection, differing only in the thumbnail edge cap.
type Classifier struct {
	maxEdge int

	// placeholder is the generic file icon, rendered once at construction.
	placeholder []byte
}

// New creates a classifier whose thumbnails are capped at maxEdge pixels on
// the longest side.
func New(maxEdge int) *Classifier {
	return &Classifier{maxEdge: maxEdge, placeholder: renderGenericIcon(maxEdge)}
}

// Classify determines the item type and previews for the given content.
//
// An explicit type hint is honored outright; only a text-derived preview is
// computed for it. Inline text is classified as link, color, or text by
// content. Files are classified by extension: known image extensions get a
// decoded-and-downsized PNG thumbnail, everything else a generic file icon.
// An image that fails to decode also falls back to the generic icon.
func (c *Classifier) Classify(ref shelf.ExternalRef, data []byte) (shelf.Classification, error) {
	if ref.TypeHint != "" {
		return shelf.Classification{
			Type:        ref.TypeHint,
			PreviewText: PreviewText(string(data)),
		}, nil
	}

	if ref.Textual {
		return classifyText(string(data)), nil
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(ref.FileName), "."))
	if imageExtensions[ext] {
		thumb, err := c.thumbnail(data)
		if err != nil {
			thumb = c.genericIcon()
		}
		return shelf.Classification{Type: shelf.TypeImage, PreviewImage: thumb}, nil
	}

	return shelf.Classification{Type: shelf.TypeFile, PreviewImage: c.genericIcon()}, nil
}

// classifyText applies the text rules: a case-insensitive http(s) prefix is
// a link, a strict hex color pattern is a color, anything else is text.
func classifyText(content string) shelf.Classification {
	trimmed := strings.TrimSpace(content)
	lower := strings.ToLower(trimmed)

	t := shelf.TypeText
	switch {
	case strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://"):
		t = shelf.TypeLink
	case colorPattern.MatchString(trimmed):
		t = shelf.TypeColor
	}
	return shelf.Classification{Type: t, PreviewText: PreviewText(content)}
}

// PreviewText trims leading/trailing whitespace and truncates the result to
// 50 characters. The result is always a prefix of the trimmed source.
func PreviewText(content string) string {
	trimmed := strings.TrimSpace(content)
	runes := []rune(trimmed)
	if len(runes) <= previewTextLimit {
		return trimmed
	}
	return string(runes[:previewTextLimit])
}

// Compile-time check that Classifier implements the shelf.Classifier interface
var _ shelf.Classifier = (*Classifier)(nil)

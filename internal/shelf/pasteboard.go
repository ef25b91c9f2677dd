package shelf

// PasteboardKind identifies what kind of payload a pasteboard read produced.
type PasteboardKind int

const (
	PasteboardEmpty PasteboardKind = iota
	PasteboardText
	PasteboardImage
	PasteboardFiles
)

// PasteboardContent is one snapshot of the OS pasteboard.
type PasteboardContent struct {
	Kind  PasteboardKind
	Text  string
	Image []byte   // PNG bytes when Kind == PasteboardImage
	Files []string // local paths when Kind == PasteboardFiles
}

// Pasteboard abstracts the OS pasteboard. Change notification is not
// available from the OS, so callers poll ChangeCount on a fixed interval.
type Pasteboard interface {
	// ChangeCount returns a counter that increases whenever the pasteboard
	// contents change. The absolute value is meaningless; only inequality
	// with a previously observed value matters.
	ChangeCount() (int64, error)

	// Read returns the current pasteboard contents.
	Read() (PasteboardContent, error)
}

// DirWatcher reports out-of-band changes to a watched directory. Events are
// coalesced: one signal may cover any number of filesystem changes, and the
// receiver re-lists the directory to reconcile.
type DirWatcher interface {
	Events() <-chan struct{}
	Close() error
}

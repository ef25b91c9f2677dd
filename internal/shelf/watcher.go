package shelf

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// DefaultPollInterval is how often the pasteboard is checked for changes.
// Event-driven pasteboard notification is not available from the OS, so
// capture latency is bounded by this poll period.
const DefaultPollInterval = 2 * time.Second

// Watcher observes the OS pasteboard and the on-disk tray directory for
// changes not initiated by this process, and reconciles the stores through
// the ingestion pipeline. Watcher failures are never fatal: errors are
// logged and watching continues.
type Watcher struct {
	svc      *Service
	pb       Pasteboard
	trayDir  DirWatcher
	interval time.Duration
	clock    Clock
	logger   Logger

	// ignore filters directory entries by name during tray reconciliation.
	// .DS_Store is always ignored regardless of this hook.
	ignore func(name string) bool

	lastChange   int64
	lastIngested string // hash of the last pasteboard payload we ingested
}

// NewWatcher creates a watcher over the service's collections. trayDir may
// be nil to disable filesystem reconciliation; ignore may be nil.
func NewWatcher(svc *Service, pb Pasteboard, trayDir DirWatcher, interval time.Duration, clock Clock, logger Logger, ignore func(string) bool) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if ignore == nil {
		ignore = func(string) bool { return false }
	}
	return &Watcher{
		svc:      svc,
		pb:       pb,
		trayDir:  trayDir,
		interval: interval,
		clock:    clock,
		logger:   logger,
		ignore:   ignore,
	}
}

// Run watches until the context is canceled. The pasteboard is polled on
// the fixed interval; tray reconciliation runs once at start and then on
// every directory change signal.
func (w *Watcher) Run(ctx context.Context) error {
	if cc, err := w.pb.ChangeCount(); err == nil {
		w.lastChange = cc
	}
	if err := w.ReconcileTray(); err != nil {
		w.logger.Error("initial tray reconciliation failed", "err", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var dirEvents <-chan struct{}
	if w.trayDir != nil {
		dirEvents = w.trayDir.Events()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.checkPasteboard()
		case <-dirEvents:
			if err := w.ReconcileTray(); err != nil {
				w.logger.Error("tray reconciliation failed", "err", err)
			}
		}
	}
}

// checkPasteboard ingests the current pasteboard contents when the change
// count moved and the payload differs from what was last ingested.
func (w *Watcher) checkPasteboard() {
	cc, err := w.pb.ChangeCount()
	if err != nil {
		w.logger.Warn("pasteboard change count failed", "err", err)
		return
	}
	if cc == w.lastChange {
		return
	}
	w.lastChange = cc

	content, err := w.pb.Read()
	if err != nil {
		w.logger.Warn("pasteboard read failed", "err", err)
		return
	}
	if content.Kind == PasteboardEmpty {
		return
	}

	hash := contentHash(content)
	if hash == w.lastIngested {
		return
	}

	refs := w.pasteboardRefs(content)
	if len(refs) == 0 {
		return
	}
	n, err := w.svc.Ingest(CollectionClipboard, refs)
	if n > 0 {
		// A partially failed payload still counts as handled: retrying it
		// on the next poll would duplicate the items that did make it in.
		w.lastIngested = hash
	}
	if err != nil {
		w.logger.Warn("clipboard ingestion failed", "err", err)
	}
}

// pasteboardRefs converts a pasteboard snapshot into ingestion references.
func (w *Watcher) pasteboardRefs(content PasteboardContent) []ExternalRef {
	switch content.Kind {
	case PasteboardText:
		if strings.TrimSpace(content.Text) == "" {
			return nil
		}
		name := fmt.Sprintf("Clipboard %s.txt", w.captureStamp())
		return []ExternalRef{TextRef(name, content.Text)}
	case PasteboardImage:
		if len(content.Image) == 0 {
			return nil
		}
		name := fmt.Sprintf("Clipboard %s.png", w.captureStamp())
		return []ExternalRef{BytesRef(name, content.Image)}
	case PasteboardFiles:
		refs := make([]ExternalRef, 0, len(content.Files))
		for _, p := range content.Files {
			refs = append(refs, FileRef(p))
		}
		return refs
	default:
		return nil
	}
}

func (w *Watcher) captureStamp() string {
	return w.clock.Now().Format("2006-01-02 at 15.04.05")
}

// ReconcileTray aligns the tray store with the on-disk tray directory:
// files on disk but unknown to the store are adopted in place, keeping
// their on-disk identity so repeated passes converge; items whose artifact
// vanished are dropped from the store without a storage delete, since the
// file is already gone. Dotfiles (.DS_Store, the storage layer's .tmp-*
// files mid-write) are skipped.
func (w *Watcher) ReconcileTray() error {
	store := w.svc.Store(CollectionTray)
	storage := store.Storage()

	entries, err := storage.List()
	if err != nil {
		return fmt.Errorf("listing tray storage: %w", err)
	}

	known := make(map[string]bool)
	for _, it := range store.Items() {
		known[storage.Path(it.ID, it.FileName)] = true
	}

	onDisk := make(map[string]bool, len(entries))
	var refs []ExternalRef
	for _, e := range entries {
		if strings.HasPrefix(e.FileName, ".") || w.ignore(e.FileName) {
			continue
		}
		onDisk[e.Path] = true
		if !known[e.Path] {
			ref := FileRef(e.Path)
			ref.ID = e.ID
			refs = append(refs, ref)
		}
	}

	for _, it := range store.Items() {
		if !onDisk[storage.Path(it.ID, it.FileName)] {
			if err := store.Forget(it.ID); err != nil {
				return err
			}
			w.logger.Info("dropped item with missing artifact", "id", it.ID, "file", it.FileName)
		}
	}

	if len(refs) > 0 {
		if _, err := w.svc.Ingest(CollectionTray, refs); err != nil {
			w.logger.Warn("tray ingestion finished with failures", "err", err)
		}
	}
	return nil
}

// contentHash fingerprints a pasteboard payload for last-ingested dedupe.
func contentHash(c PasteboardContent) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d\n", c.Kind)
	h.Write([]byte(c.Text))
	h.Write(c.Image)
	for _, f := range c.Files {
		h.Write([]byte(f))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"shelf-go/internal/classify"
	"shelf-go/internal/config"
	"shelf-go/internal/database"
	"shelf-go/internal/dirwatch"
	"shelf-go/internal/pasteboard"
	"shelf-go/internal/shelf"
	"shelf-go/internal/storage"
)

// ShelfApp is the application layer between the CLI and the shelf service.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw strings, and manages the resource lifecycle on Close.
type ShelfApp struct {
	cfg     *config.Config
	db      shelf.Database
	svc     *shelf.Service
	logger  shelf.Logger
	logFile *os.File
}

// NewShelfApp creates a fully wired ShelfApp from the given config.
// The caller must call Close when done.
func NewShelfApp(cfg *config.Config) (*ShelfApp, error) {
	slogger, logFile, err := newLogger(cfg.LogDir)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating database: %w", err)
	}

	trayStorage, err := storage.NewFromConfig(cfg.Tray)
	if err != nil {
		db.Close()
		logFile.Close()
		return nil, fmt.Errorf("creating tray storage: %w", err)
	}
	clipStorage, err := storage.NewFromConfig(cfg.Clipboard)
	if err != nil {
		db.Close()
		logFile.Close()
		return nil, fmt.Errorf("creating clipboard storage: %w", err)
	}

	// The tray dedupes by file name: its flat directory is watched, and
	// redundant filesystem events must not produce duplicate items.
	tray := shelf.NewStore(shelf.CollectionTray, db, trayStorage, logger, true)
	clip := shelf.NewStore(shelf.CollectionClipboard, db, clipStorage, logger, false)

	svc := shelf.NewService(db, tray, clip,
		classify.New(classify.TrayThumbnailEdge),
		classify.New(classify.ClipboardThumbnailEdge),
		logger, shelf.RealClock{}, shelf.UUIDGenerator{})

	if err := svc.Load(); err != nil {
		db.Close()
		logFile.Close()
		return nil, fmt.Errorf("loading collections: %w", err)
	}

	return &ShelfApp{
		cfg:     cfg,
		db:      db,
		svc:     svc,
		logger:  logger,
		logFile: logFile,
	}, nil
}

// Service exposes the underlying service for commands that need the full
// query surface.
func (a *ShelfApp) Service() *shelf.Service { return a.svc }

// Add ingests local files into the given collection.
func (a *ShelfApp) Add(c shelf.Collection, paths []string) error {
	refs := make([]shelf.ExternalRef, 0, len(paths))
	for _, p := range paths {
		refs = append(refs, shelf.FileRef(p))
	}
	_, err := a.svc.Ingest(c, refs)
	return err
}

// AddText ingests an inline text snippet into the given collection.
func (a *ShelfApp) AddText(c shelf.Collection, fileName, text string) error {
	_, err := a.svc.Ingest(c, []shelf.ExternalRef{shelf.TextRef(fileName, text)})
	return err
}

// List returns the sorted projection, filtered by query and type facets.
func (a *ShelfApp) List(c shelf.Collection, query string, types []shelf.ItemType) []*shelf.Item {
	return a.svc.Search(c, query, types)
}

// Delete removes an item and its backing artifact.
func (a *ShelfApp) Delete(c shelf.Collection, id string) error {
	return a.svc.Delete(c, id)
}

// Clear removes all items of a collection.
func (a *ShelfApp) Clear(c shelf.Collection) error {
	return a.svc.Clear(c)
}

// TogglePin flips an item's pinned flag.
func (a *ShelfApp) TogglePin(c shelf.Collection, id string) error {
	return a.svc.TogglePin(c, id)
}

// AddLabel adds a label to an item.
func (a *ShelfApp) AddLabel(c shelf.Collection, id, label string) error {
	return a.svc.AddLabel(c, id, label)
}

// RemoveLabel removes a label from an item.
func (a *ShelfApp) RemoveLabel(c shelf.Collection, id, label string) error {
	return a.svc.RemoveLabel(c, id, label)
}

// Retention returns the configured retention for a collection.
func (a *ShelfApp) Retention(c shelf.Collection) (shelf.RetentionConfig, error) {
	return a.svc.Retention(c)
}

// SetRetention validates and persists the retention configuration.
func (a *ShelfApp) SetRetention(c shelf.Collection, cfg shelf.RetentionConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return a.svc.SetRetention(c, cfg)
}

// Sweep runs one retention sweep over a collection.
func (a *ShelfApp) Sweep(c shelf.Collection) (int, error) {
	return a.svc.SweepExpired(c)
}

// Watch runs the external change watcher and a periodic retention sweep
// until the context is canceled.
func (a *ShelfApp) Watch(ctx context.Context) error {
	pb, err := pasteboard.NewSystem()
	var board shelf.Pasteboard = pb
	if err != nil {
		a.logger.Warn("clipboard unavailable, pasteboard capture disabled", "err", err)
		board = pasteboard.NewNull()
	}

	var trayWatch shelf.DirWatcher
	if a.cfg.Tray.Layout != "memory" {
		root := a.svc.Store(shelf.CollectionTray).Storage().Root()
		dw, err := dirwatch.New(root, a.logger)
		if err != nil {
			a.logger.Warn("tray directory watch unavailable", "err", err)
		} else {
			trayWatch = dw
			defer dw.Close()
		}
	}

	ignore := dirwatch.NewIgnoreMatcher(a.cfg.Watch.Ignore)
	interval := time.Duration(a.cfg.Watch.PollIntervalSeconds) * time.Second
	watcher := shelf.NewWatcher(a.svc, board, trayWatch, interval,
		shelf.RealClock{}, a.logger, ignore.Match)

	sweepEvery := time.Duration(a.cfg.Watch.SweepIntervalSeconds) * time.Second
	if sweepEvery <= 0 {
		sweepEvery = 5 * time.Minute
	}
	go a.sweepLoop(ctx, sweepEvery)

	a.logger.Info("watching", "poll_interval", interval, "sweep_interval", sweepEvery)
	return watcher.Run(ctx)
}

// sweepLoop invokes the retention sweep on a fixed period. The sweep itself
// is a pure filter plus store removals; scheduling lives here.
func (a *ShelfApp) sweepLoop(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, c := range []shelf.Collection{shelf.CollectionTray, shelf.CollectionClipboard} {
				if _, err := a.svc.SweepExpired(c); err != nil {
					a.logger.Error("retention sweep failed", "collection", c, "err", err)
				}
			}
		}
	}
}

// Close releases all resources.
func (a *ShelfApp) Close() error {
	var firstErr error
	if err := a.db.Close(); err != nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}

package shelf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"sync/atomic"
)

// defaultWorkers bounds how many ingestion items are classified and stored
// concurrently. Classification can block on file reads and image decoding.
const defaultWorkers = 4

// Service is the orchestration layer over both collections: it runs the
// ingestion pipeline, exposes the query surface consumed by the UI layer,
// and applies retention sweeps. One Service instance exists per process and
// is injected into its consumers explicitly.
type Service struct {
	db     Database
	logger Logger
	clock  Clock
	idgen  IDGenerator
	gate   Gate

	cols map[Collection]*collectionRuntime

	// loading counts in-flight ingestion batches. It is a counter, not a
	// flag, so the "anything in flight" signal stays accurate for N>=1
	// concurrent ingestions.
	loading atomic.Int64
}

type collectionRuntime struct {
	store      *Store
	classifier Classifier
}

// NewService wires the service over the two stores and their classifiers.
func NewService(db Database, tray, clipboard *Store, trayClassifier, clipboardClassifier Classifier, logger Logger, clock Clock, idgen IDGenerator) *Service {
	return &Service{
		db:     db,
		logger: logger,
		clock:  clock,
		idgen:  idgen,
		gate:   NewGate(defaultWorkers),
		cols: map[Collection]*collectionRuntime{
			CollectionTray:      {store: tray, classifier: trayClassifier},
			CollectionClipboard: {store: clipboard, classifier: clipboardClassifier},
		},
	}
}

// Load restores both collections from the database.
func (s *Service) Load() error {
	for _, cr := range s.cols {
		if err := cr.store.Load(); err != nil {
			return err
		}
	}
	return nil
}

// Store returns the underlying store for a collection.
func (s *Service) Store(c Collection) *Store {
	return s.cols[c].store
}

// IsLoading reports whether any ingestion batch is in flight.
func (s *Service) IsLoading() bool { return s.loading.Load() > 0 }

// Ingest turns external content references into persisted items of the
// given collection and returns how many were inserted. Failures are soft
// and per-item: items that succeed are kept, items that fail are reported
// together in the returned error. The batch order is preserved, inserted
// collectively at the front of the collection.
func (s *Service) Ingest(c Collection, refs []ExternalRef) (int, error) {
	cr, ok := s.cols[c]
	if !ok {
		return 0, fmt.Errorf("unknown collection %q", c)
	}
	if len(refs) == 0 {
		return 0, nil
	}

	s.loading.Add(1)
	defer s.loading.Add(-1)

	// Classify and store concurrently, but keep results in batch order.
	results := make([]*Item, len(refs))
	errs := make([]error, len(refs))
	var wg sync.WaitGroup
	for i, ref := range refs {
		i, ref := i, ref
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.gate.Enter()
			defer s.gate.Leave()
			results[i], errs[i] = s.ingestOne(cr, ref)
		}()
	}
	wg.Wait()

	items := make([]*Item, 0, len(refs))
	for _, it := range results {
		if it != nil {
			items = append(items, it)
		}
	}
	if len(items) > 0 {
		if err := cr.store.Insert(items...); err != nil {
			return 0, err
		}
	}

	if err := errors.Join(errs...); err != nil {
		s.logger.Warn("ingestion finished with failures", "collection", c, "err", err)
		return len(items), err
	}
	s.logger.Info("ingested", "collection", c, "count", len(items))
	return len(items), nil
}

// ingestOne resolves, classifies, and persists a single external reference.
func (s *Service) ingestOne(cr *collectionRuntime, ref ExternalRef) (*Item, error) {
	rc, err := ref.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrContentUnreadable, ref.FileName, err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrContentUnreadable, ref.FileName, err)
	}

	cls, err := cr.classifier.Classify(ref, data)
	if err != nil {
		return nil, fmt.Errorf("classifying %s: %w", ref.FileName, err)
	}

	id := ref.ID
	if id == "" {
		id = s.idgen.New()
	}
	// An adopted reference points at an artifact already in its final
	// location; copying it onto itself would just churn the directory.
	st := cr.store.Storage()
	if ref.ID == "" || !st.Exists(id, ref.FileName) {
		if _, err := st.Store(bytes.NewReader(data), id, ref.FileName); err != nil {
			return nil, fmt.Errorf("%w: storing %s: %v", ErrStorageWriteFailed, ref.FileName, err)
		}
	}

	item := &Item{
		ID:           id,
		FileName:     ref.FileName,
		Size:         int64(len(data)),
		CopiedAt:     s.clock.Now(),
		Type:         cls.Type,
		PreviewText:  cls.PreviewText,
		PreviewImage: cls.PreviewImage,
		SourceApp:    ref.SourceApp,
		DeviceType:   ref.DeviceType,
	}
	item.Labels = seedLabels(item)
	return item, nil
}

// seedLabels derives the initial label set from type and provenance.
func seedLabels(it *Item) []string {
	labels := []string{string(it.Type)}
	if it.SourceApp != "" {
		labels = append(labels, it.SourceApp)
	}
	if it.DeviceType != "" {
		labels = append(labels, it.DeviceType)
	}
	return labels
}

// Items returns the sorted projection of a collection.
func (s *Service) Items(c Collection) []*Item {
	return s.cols[c].store.Items()
}

// Search returns the sorted projection filtered by free-text query and type
// facets. An empty type selection means all types.
func (s *Service) Search(c Collection, query string, types []ItemType) []*Item {
	return Filter(s.cols[c].store.Items(), query, types)
}

// IsEmpty reports whether a collection has no items.
func (s *Service) IsEmpty(c Collection) bool { return s.cols[c].store.IsEmpty() }

// Delete removes an item and its artifact. Unknown ids are a no-op.
func (s *Service) Delete(c Collection, id string) error {
	return s.cols[c].store.Remove(id)
}

// Clear removes every item of a collection through the per-item path.
func (s *Service) Clear(c Collection) error {
	return s.cols[c].store.RemoveAll()
}

// TogglePin flips an item's pinned flag.
func (s *Service) TogglePin(c Collection, id string) error {
	return s.cols[c].store.TogglePin(id)
}

// AddLabel adds a label to an item.
func (s *Service) AddLabel(c Collection, id, label string) error {
	return s.cols[c].store.AddLabel(id, label)
}

// RemoveLabel removes a label from an item.
func (s *Service) RemoveLabel(c Collection, id, label string) error {
	return s.cols[c].store.RemoveLabel(id, label)
}

// Settings keys for per-collection retention configuration.
func retentionKeys(c Collection) (preset, value, unit string) {
	base := "retention." + string(c)
	return base + ".preset", base + ".custom_value", base + ".custom_unit"
}

// Retention returns the configured retention for a collection, falling back
// to the default when nothing is stored.
func (s *Service) Retention(c Collection) (RetentionConfig, error) {
	presetKey, valueKey, unitKey := retentionKeys(c)

	cfg := DefaultRetention()
	if v, ok, err := s.db.GetSetting(presetKey); err != nil {
		return cfg, fmt.Errorf("reading retention preset: %w", err)
	} else if ok {
		cfg.Preset = RetentionPreset(v)
	}
	if v, ok, err := s.db.GetSetting(valueKey); err != nil {
		return cfg, fmt.Errorf("reading retention value: %w", err)
	} else if ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("parsing retention value: %w", err)
		}
		cfg.CustomValue = n
	}
	if v, ok, err := s.db.GetSetting(unitKey); err != nil {
		return cfg, fmt.Errorf("reading retention unit: %w", err)
	} else if ok {
		cfg.CustomUnit = RetentionUnit(v)
	}
	return cfg, nil
}

// SetRetention persists the retention configuration for a collection. The
// configuration is stored as given; a non-positive custom duration is not an
// error here — the expiry derivation guards against it.
func (s *Service) SetRetention(c Collection, cfg RetentionConfig) error {
	presetKey, valueKey, unitKey := retentionKeys(c)

	if err := s.db.SetSetting(presetKey, string(cfg.Preset)); err != nil {
		return fmt.Errorf("storing retention preset: %w", err)
	}
	if err := s.db.SetSetting(valueKey, strconv.FormatInt(cfg.CustomValue, 10)); err != nil {
		return fmt.Errorf("storing retention value: %w", err)
	}
	if err := s.db.SetSetting(unitKey, string(cfg.CustomUnit)); err != nil {
		return fmt.Errorf("storing retention unit: %w", err)
	}
	return nil
}

// SweepExpired removes expired items from a collection and returns how many
// were removed. The sweep takes one snapshot, filters it through the
// retention policy, and applies removals through the store's normal mutation
// path. Items whose artifact is already missing are forgotten without a
// storage delete.
func (s *Service) SweepExpired(c Collection) (int, error) {
	cr, ok := s.cols[c]
	if !ok {
		return 0, fmt.Errorf("unknown collection %q", c)
	}

	cfg, err := s.Retention(c)
	if err != nil {
		return 0, err
	}
	expiry := cfg.Expiry()
	storage := cr.store.Storage()

	exists := func(it *Item) bool { return storage.Exists(it.ID, it.FileName) }
	expired := Expired(cr.store.Items(), expiry, exists, s.clock.Now())

	removed := 0
	for _, it := range expired {
		if exists(it) {
			err = cr.store.Remove(it.ID)
		} else {
			err = cr.store.Forget(it.ID)
		}
		if err != nil {
			return removed, err
		}
		removed++
	}
	if removed > 0 {
		s.logger.Info("retention sweep", "collection", c, "removed", removed)
	}
	return removed, nil
}

package shelf_test

import (
	"io"
	"strings"
	"testing"
	"time"

	"shelf-go/internal/database"
	"shelf-go/internal/shelf"
	"shelf-go/internal/storage"
)

func bytesReader(s string) io.Reader { return strings.NewReader(s) }

func newTestStore(t *testing.T, dedupeByName bool) (*shelf.Store, *storage.Memory, *database.MemoryDatabase) {
	t.Helper()
	db := database.NewMemoryDatabase()
	st := storage.NewMemory()
	return shelf.NewStore(shelf.CollectionClipboard, db, st, shelf.NewNopLogger(), dedupeByName), st, db
}

func testItem(id, fileName string, copiedAt time.Time) *shelf.Item {
	return &shelf.Item{ID: id, FileName: fileName, CopiedAt: copiedAt, Type: shelf.TypeText}
}

func itemIDs(items []*shelf.Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

func assertOrder(t *testing.T, items []*shelf.Item, want ...string) {
	t.Helper()
	got := itemIDs(items)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestStoreInsertOrdering(t *testing.T) {
	s, _, _ := newTestStore(t, false)
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	// Single inserts land at the front, most recent first.
	for i, id := range []string{"a", "b", "c"} {
		if err := s.Insert(testItem(id, id+".txt", base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Insert(%s) error = %v", id, err)
		}
	}
	assertOrder(t, s.Items(), "c", "b", "a")

	// A batch goes in collectively at the front, keeping its internal order.
	if err := s.Insert(
		testItem("d", "d.txt", base.Add(10*time.Minute)),
		testItem("e", "e.txt", base.Add(11*time.Minute)),
	); err != nil {
		t.Fatalf("batch Insert() error = %v", err)
	}
	assertOrder(t, s.Items(), "e", "d", "c", "b", "a")

	if s.Len() != 5 {
		t.Errorf("Len() = %d, want 5", s.Len())
	}
}

func TestStoreInsertExistingIDUpdatesInPlace(t *testing.T) {
	s, _, _ := newTestStore(t, false)
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	must(t, s.Insert(testItem("a", "a.txt", base)))
	must(t, s.Insert(testItem("b", "b.txt", base.Add(time.Minute))))

	// Re-inserting "a" with new content must not move it or grow the store.
	updated := testItem("a", "a.txt", base)
	updated.PreviewText = "updated"
	must(t, s.Insert(updated))

	assertOrder(t, s.Items(), "b", "a")
	got, ok := s.Get("a")
	if !ok || got.PreviewText != "updated" {
		t.Errorf("Get(a) = %+v, want updated preview", got)
	}
}

func TestStoreDedupeByName(t *testing.T) {
	s, _, _ := newTestStore(t, true)
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	must(t, s.Insert(testItem("a", "doc.txt", base)))
	// Same name, different id: skipped entirely.
	must(t, s.Insert(testItem("b", "doc.txt", base.Add(time.Minute))))
	// Duplicate names inside one batch collapse to the first.
	must(t, s.Insert(
		testItem("c", "photo.png", base.Add(2*time.Minute)),
		testItem("d", "photo.png", base.Add(2*time.Minute)),
	))

	assertOrder(t, s.Items(), "c", "a")
}

func TestStoreRemove(t *testing.T) {
	s, artifacts, db := newTestStore(t, false)
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	it := testItem("a", "a.txt", base)
	must(t, s.Insert(it))
	if _, err := artifacts.Store(bytesReader("hello"), "a", "a.txt"); err != nil {
		t.Fatalf("seeding artifact: %v", err)
	}

	if err := s.Remove("a"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if artifacts.Exists("a", "a.txt") {
		t.Errorf("artifact still present after Remove()")
	}
	if _, ok := s.Get("a"); ok {
		t.Errorf("item still present after Remove()")
	}
	stored, _ := db.LoadItems(shelf.CollectionClipboard)
	if len(stored) != 0 {
		t.Errorf("database still holds %d items after Remove()", len(stored))
	}

	// Removing an unknown id is a no-op, not an error.
	if err := s.Remove("a"); err != nil {
		t.Errorf("repeated Remove() = %v, want nil", err)
	}
	if err := s.Remove("never-existed"); err != nil {
		t.Errorf("Remove(unknown) = %v, want nil", err)
	}
}

func TestStoreForgetLeavesArtifact(t *testing.T) {
	s, artifacts, _ := newTestStore(t, false)

	must(t, s.Insert(testItem("a", "a.txt", time.Now())))
	if _, err := artifacts.Store(bytesReader("x"), "a", "a.txt"); err != nil {
		t.Fatalf("seeding artifact: %v", err)
	}

	if err := s.Forget("a"); err != nil {
		t.Fatalf("Forget() error = %v", err)
	}
	if _, ok := s.Get("a"); ok {
		t.Errorf("item still present after Forget()")
	}
	if !artifacts.Exists("a", "a.txt") {
		t.Errorf("Forget() deleted the artifact")
	}
}

func TestStoreLoadRestoresRawOrder(t *testing.T) {
	db := database.NewMemoryDatabase()
	artifacts := storage.NewMemory()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	first := shelf.NewStore(shelf.CollectionClipboard, db, artifacts, shelf.NewNopLogger(), false)
	must(t, first.Insert(testItem("a", "a.txt", base)))
	must(t, first.Insert(testItem("b", "b.txt", base.Add(time.Minute))))
	must(t, first.Insert(testItem("c", "c.txt", base.Add(2*time.Minute))))
	must(t, first.Remove("b"))

	second := shelf.NewStore(shelf.CollectionClipboard, db, artifacts, shelf.NewNopLogger(), false)
	if err := second.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	assertOrder(t, second.Items(), "c", "a")

	// New inserts after a reload still land at the front.
	must(t, second.Insert(testItem("d", "d.txt", base.Add(3*time.Minute))))
	assertOrder(t, second.Items(), "d", "c", "a")
}

func TestStorePinnedSortAheadOfRecency(t *testing.T) {
	s, _, _ := newTestStore(t, false)
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	must(t, s.Insert(testItem("old", "old.txt", base)))
	must(t, s.Insert(testItem("mid", "mid.txt", base.Add(time.Hour))))
	must(t, s.Insert(testItem("new", "new.txt", base.Add(2*time.Hour))))

	must(t, s.TogglePin("old"))
	assertOrder(t, s.Items(), "old", "new", "mid")

	must(t, s.TogglePin("mid"))
	assertOrder(t, s.Items(), "mid", "old", "new")

	// Unpinning folds the item back into recency order.
	must(t, s.TogglePin("old"))
	assertOrder(t, s.Items(), "mid", "new", "old")
}

func TestStoreLabels(t *testing.T) {
	s, _, db := newTestStore(t, false)

	must(t, s.Insert(testItem("a", "a.txt", time.Now())))
	must(t, s.AddLabel("a", "work"))
	must(t, s.AddLabel("a", "urgent"))
	must(t, s.RemoveLabel("a", "work"))

	got, _ := s.Get("a")
	if len(got.Labels) != 1 || got.Labels[0] != "urgent" {
		t.Errorf("Labels = %v, want [urgent]", got.Labels)
	}

	// Label changes are written through.
	stored, _ := db.LoadItems(shelf.CollectionClipboard)
	if len(stored) != 1 || len(stored[0].Item.Labels) != 1 || stored[0].Item.Labels[0] != "urgent" {
		t.Errorf("persisted labels = %v, want [urgent]", stored[0].Item.Labels)
	}

	// Unknown ids are a no-op.
	must(t, s.AddLabel("missing", "x"))
	must(t, s.TogglePin("missing"))
}

func TestStoreRemoveAll(t *testing.T) {
	s, artifacts, _ := newTestStore(t, false)

	for _, id := range []string{"a", "b", "c"} {
		must(t, s.Insert(testItem(id, id+".txt", time.Now())))
		if _, err := artifacts.Store(bytesReader("x"), id, id+".txt"); err != nil {
			t.Fatalf("seeding artifact: %v", err)
		}
	}

	if err := s.RemoveAll(); err != nil {
		t.Fatalf("RemoveAll() error = %v", err)
	}
	if !s.IsEmpty() {
		t.Errorf("IsEmpty() = false after RemoveAll()")
	}
	entries, _ := artifacts.List()
	if len(entries) != 0 {
		t.Errorf("storage still holds %d artifacts after RemoveAll()", len(entries))
	}
}

func TestStoreItemsReturnsCopies(t *testing.T) {
	s, _, _ := newTestStore(t, false)

	it := testItem("a", "a.txt", time.Now())
	it.Labels = []string{"work"}
	must(t, s.Insert(it))

	s.Items()[0].Labels[0] = "mutated"
	got, _ := s.Get("a")
	if got.Labels[0] != "work" {
		t.Errorf("Items() exposes store-owned state")
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

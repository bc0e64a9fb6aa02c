package kv_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/tkvdb/tkv/lib/kv"
	"github.com/tkvdb/tkv/lib/kv/kvtest"
)

func TestMemoryStore(t *testing.T) {
	kvtest.RunStoreTests(t, "SQLite(memory)", func() (kv.IStore, error) {
		return kv.Open(kv.Options{})
	})
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	n := 0
	kvtest.RunStoreTests(t, "SQLite(file)", func() (kv.IStore, error) {
		n++
		return kv.Open(kv.Options{Path: filepath.Join(dir, fmt.Sprintf("store-%d.db", n))})
	})
}

func Benchmark(b *testing.B) {
	kvtest.RunStoreBenchmarks(b, "SQLite(memory)", func() (kv.IStore, error) {
		return kv.Open(kv.Options{})
	})
}

// --------------------------------------------------------------------------
// Open contract
// --------------------------------------------------------------------------

func TestOpenDefaultsToMemory(t *testing.T) {
	store, err := kv.Open(kv.Options{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	if err := store.Strings().Set("key", "value"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
}

func TestOpenExplicitMemory(t *testing.T) {
	store, err := kv.Open(kv.Options{Memory: true})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	if err := store.Strings().Set("key", "value"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
}

func TestOpenMemoryPathLiteral(t *testing.T) {
	store, err := kv.Open(kv.Options{Path: ":memory:"})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	if err := store.Strings().Set("key", "value"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
}

func TestMemoryStoresAreIndependent(t *testing.T) {
	first, err := kv.Open(kv.Options{Memory: true})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer first.Close()

	second, err := kv.Open(kv.Options{Memory: true})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer second.Close()

	if err := first.Strings().Set("key", "value"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if loaded, err := second.Strings().Has("key"); err != nil {
		t.Fatalf("Has failed: %v", err)
	} else if loaded {
		t.Errorf("Expected separate in-memory stores not to share rows")
	}
}

func TestOpenRejectsConflictingOptions(t *testing.T) {
	_, err := kv.Open(kv.Options{Memory: true, Path: "store.db"})
	if !errors.Is(err, kv.ErrConflictingOptions) {
		t.Fatalf("Expected ErrConflictingOptions, got %v", err)
	}
}

func TestOpenInaccessiblePath(t *testing.T) {
	// A path whose parent is a regular file cannot be created, regardless
	// of the permissions the test runs under.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("not a directory"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, err := kv.Open(kv.Options{Path: filepath.Join(blocker, "store.db")})
	if err == nil {
		t.Fatalf("Expected Open to fail for an inaccessible path")
	}
	if errors.Is(err, kv.ErrClosed) || errors.Is(err, kv.ErrConflictingOptions) {
		t.Fatalf("Expected a backing engine error, got %v", err)
	}
}

func TestFilePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")

	store, err := kv.Open(kv.Options{Path: path})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.Strings().Set("hello", "world"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// A fresh handle on the same path observes the row.
	reopened, err := kv.Open(kv.Options{Path: path})
	if err != nil {
		t.Fatalf("Open (reopen) failed: %v", err)
	}
	defer reopened.Close()

	value, loaded, err := reopened.Strings().Get("hello")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !loaded || value != "world" {
		t.Errorf("Expected persisted (world, true), got (%q, %v)", value, loaded)
	}
}

// --------------------------------------------------------------------------
// End-to-end scenarios
// --------------------------------------------------------------------------

func TestScenarioStringView(t *testing.T) {
	store, err := kv.Open(kv.Options{Memory: true})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()
	view := store.Strings()

	if err := view.Set("hello", "world"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if value, _, _ := view.Get("hello"); value != "world" {
		t.Errorf("Expected world, got %q", value)
	}
	if size, _ := view.Size(); size != 1 {
		t.Errorf("Expected size 1, got %d", size)
	}
	if err := view.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if size, _ := view.Size(); size != 0 {
		t.Errorf("Expected size 0 after Clear, got %d", size)
	}
}

func TestScenarioJSONView(t *testing.T) {
	store, err := kv.Open(kv.Options{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()
	view := store.JSON()

	if err := view.Set("foo", map[string]any{"bar": "baz"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, loaded, err := view.Get("foo")
	if err != nil || !loaded {
		t.Fatalf("Get failed: (%v, %v)", loaded, err)
	}
	obj, ok := value.(map[string]any)
	if !ok {
		t.Fatalf("Expected an object, got %#v", value)
	}
	if obj["bar"] != "baz" {
		t.Errorf("Expected bar=baz, got %#v", obj["bar"])
	}
}

package kvtest

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/tkvdb/tkv/lib/kv"
)

// StoreFactory is a function that creates a fresh, empty store instance.
type StoreFactory func() (kv.IStore, error)

// RunStoreTests runs a comprehensive test suite against a store
// implementation.
func RunStoreTests(t *testing.T, name string, factory StoreFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, mustOpen(t, factory))
		})

		t.Run("Has", func(t *testing.T) {
			testHas(t, mustOpen(t, factory))
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, mustOpen(t, factory))
		})

		t.Run("Clear", func(t *testing.T) {
			testClear(t, mustOpen(t, factory))
		})

		t.Run("Size", func(t *testing.T) {
			testSize(t, mustOpen(t, factory))
		})

		t.Run("Iteration", func(t *testing.T) {
			testIteration(t, mustOpen(t, factory))
		})

		t.Run("JSONRoundTrip", func(t *testing.T) {
			testJSONRoundTrip(t, mustOpen(t, factory))
		})

		t.Run("ViewsShareRows", func(t *testing.T) {
			testViewsShareRows(t, mustOpen(t, factory))
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, mustOpen(t, factory))
		})

		t.Run("Close", func(t *testing.T) {
			testClose(t, mustOpen(t, factory))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

func mustOpen(t *testing.T, factory StoreFactory) kv.IStore {
	t.Helper()
	store, err := factory()
	if err != nil {
		t.Fatalf("factory failed: %v", err)
	}
	return store
}

// collectKeys drains a key cursor into a slice.
func collectKeys(t *testing.T, view kv.IView[string]) []string {
	t.Helper()
	cur, err := view.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	defer cur.Close()

	var keys []string
	for cur.Next() {
		keys = append(keys, cur.Value())
	}
	if err := cur.Err(); err != nil {
		t.Fatalf("Keys cursor failed: %v", err)
	}
	return keys
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, store kv.IStore) {
	defer store.Close()
	view := store.Strings()

	if _, loaded, err := view.Get("missing"); err != nil {
		t.Errorf("Get on absent key returned error: %v", err)
	} else if loaded {
		t.Errorf("Expected absent key to report loaded=false")
	}

	if err := view.Set("hello", "world"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, loaded, err := view.Get("hello")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !loaded || value != "world" {
		t.Errorf("Expected (world, true), got (%q, %v)", value, loaded)
	}

	// Overwrite must replace the value without growing the store.
	if err := view.Set("hello", "there"); err != nil {
		t.Fatalf("Set (overwrite) failed: %v", err)
	}
	value, loaded, _ = view.Get("hello")
	if !loaded || value != "there" {
		t.Errorf("Expected (there, true) after overwrite, got (%q, %v)", value, loaded)
	}
	if size, _ := view.Size(); size != 1 {
		t.Errorf("Expected size 1 after overwrite, got %d", size)
	}
}

func testHas(t *testing.T, store kv.IStore) {
	defer store.Close()
	view := store.Strings()

	if loaded, err := view.Has("key"); err != nil || loaded {
		t.Errorf("Expected Has on absent key to be (false, nil), got (%v, %v)", loaded, err)
	}

	if err := view.Set("key", "value"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if loaded, err := view.Has("key"); err != nil || !loaded {
		t.Errorf("Expected Has on present key to be (true, nil), got (%v, %v)", loaded, err)
	}
}

func testDelete(t *testing.T, store kv.IStore) {
	defer store.Close()
	view := store.Strings()

	if err := view.Set("key", "value"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := view.Delete("key"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if loaded, _ := view.Has("key"); loaded {
		t.Errorf("Expected key to be gone after Delete")
	}

	// Deleting an absent key is a no-op.
	sizeBefore, _ := view.Size()
	if err := view.Delete("missing"); err != nil {
		t.Errorf("Delete on absent key returned error: %v", err)
	}
	if sizeAfter, _ := view.Size(); sizeAfter != sizeBefore {
		t.Errorf("Delete on absent key changed size from %d to %d", sizeBefore, sizeAfter)
	}
}

func testClear(t *testing.T, store kv.IStore) {
	defer store.Close()
	view := store.Strings()

	for i := 0; i < 10; i++ {
		if err := view.Set(fmt.Sprintf("key-%d", i), "value"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	if err := view.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if size, _ := view.Size(); size != 0 {
		t.Errorf("Expected size 0 after Clear, got %d", size)
	}
	for i := 0; i < 10; i++ {
		if loaded, _ := view.Has(fmt.Sprintf("key-%d", i)); loaded {
			t.Errorf("Expected key-%d to be gone after Clear", i)
		}
	}
}

func testSize(t *testing.T, store kv.IStore) {
	defer store.Close()
	strings := store.Strings()
	json := store.JSON()

	for i := 0; i < 5; i++ {
		if err := strings.Set(fmt.Sprintf("key-%d", i), "value"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		// Both views must agree on the size at all times.
		sSize, err := strings.Size()
		if err != nil {
			t.Fatalf("Size failed: %v", err)
		}
		jSize, err := json.Size()
		if err != nil {
			t.Fatalf("Size (JSON view) failed: %v", err)
		}
		if sSize != i+1 || jSize != i+1 {
			t.Errorf("Expected both views to report size %d, got %d and %d", i+1, sSize, jSize)
		}
	}
}

func testIteration(t *testing.T, store kv.IStore) {
	defer store.Close()
	view := store.Strings()

	// Insert out of order, expect lexicographic key order back.
	data := map[string]string{"delta": "4", "alpha": "1", "charlie": "3", "bravo": "2"}
	for k, v := range data {
		if err := view.Set(k, v); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	wantKeys := []string{"alpha", "bravo", "charlie", "delta"}

	keys := collectKeys(t, view)
	if !reflect.DeepEqual(keys, wantKeys) {
		t.Errorf("Expected keys %v, got %v", wantKeys, keys)
	}

	// Entries pairs each key with the value Get reports.
	entryCur, err := view.Entries()
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	defer entryCur.Close()

	var count int
	for entryCur.Next() {
		entry := entryCur.Value()
		if entry.Key != wantKeys[count] {
			t.Errorf("Expected entry %d to have key %q, got %q", count, wantKeys[count], entry.Key)
		}
		value, _, _ := view.Get(entry.Key)
		if entry.Value != value {
			t.Errorf("Entry value %q disagrees with Get value %q for key %q", entry.Value, value, entry.Key)
		}
		count++
	}
	if err := entryCur.Err(); err != nil {
		t.Fatalf("Entries cursor failed: %v", err)
	}
	if size, _ := view.Size(); count != size {
		t.Errorf("Entries yielded %d elements, size is %d", count, size)
	}

	// Values follow key order, not value order.
	valueCur, err := view.Values()
	if err != nil {
		t.Fatalf("Values failed: %v", err)
	}
	defer valueCur.Close()

	var values []string
	for valueCur.Next() {
		values = append(values, valueCur.Value())
	}
	if err := valueCur.Err(); err != nil {
		t.Fatalf("Values cursor failed: %v", err)
	}
	if !reflect.DeepEqual(values, []string{"1", "2", "3", "4"}) {
		t.Errorf("Expected values in key order, got %v", values)
	}

	// ForEach is identical in content to Entries.
	var visited []string
	err = view.ForEach(func(key, value string) error {
		visited = append(visited, key)
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach failed: %v", err)
	}
	if !reflect.DeepEqual(visited, wantKeys) {
		t.Errorf("Expected ForEach to visit %v, got %v", wantKeys, visited)
	}

	// Cursors are restartable: a fresh call issues an independent scan.
	if again := collectKeys(t, view); !reflect.DeepEqual(again, wantKeys) {
		t.Errorf("Expected a fresh Keys cursor to yield %v, got %v", wantKeys, again)
	}
}

func testJSONRoundTrip(t *testing.T, store kv.IStore) {
	defer store.Close()
	view := store.JSON()

	cases := map[string]any{
		"bool":   true,
		"number": 42.5,
		"null":   nil,
		"string": "text",
		"array":  []any{"a", 1.0, false, nil},
		"object": map[string]any{
			"bar":    "baz",
			"nested": map[string]any{"deep": []any{1.0, 2.0, 3.0}},
		},
	}

	for key, want := range cases {
		if err := view.Set(key, want); err != nil {
			t.Fatalf("Set(%q) failed: %v", key, err)
		}
		got, loaded, err := view.Get(key)
		if err != nil {
			t.Fatalf("Get(%q) failed: %v", key, err)
		}
		if !loaded {
			t.Errorf("Expected key %q to be loaded", key)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Round trip for %q: expected %#v, got %#v", key, want, got)
		}
	}

	// A stored JSON null reports loaded=true; only absence reports false.
	if _, loaded, _ := view.Get("null"); !loaded {
		t.Errorf("Expected stored null to report loaded=true")
	}
}

func testViewsShareRows(t *testing.T, store kv.IStore) {
	defer store.Close()
	strings := store.Strings()
	json := store.JSON()

	// A write through the JSON view is the canonical JSON text through the
	// string view.
	if err := json.Set("foo", map[string]any{"bar": "baz"}); err != nil {
		t.Fatalf("Set through JSON view failed: %v", err)
	}
	raw, loaded, err := strings.Get("foo")
	if err != nil || !loaded {
		t.Fatalf("Get through string view failed: (%v, %v)", loaded, err)
	}
	if raw != `{"bar":"baz"}` {
		t.Errorf("Expected canonical JSON text, got %q", raw)
	}

	// And the other way around.
	if err := strings.Set("num", "7"); err != nil {
		t.Fatalf("Set through string view failed: %v", err)
	}
	value, loaded, err := json.Get("num")
	if err != nil || !loaded {
		t.Fatalf("Get through JSON view failed: (%v, %v)", loaded, err)
	}
	if value != 7.0 {
		t.Errorf("Expected 7.0 through the JSON view, got %#v", value)
	}

	// Deleting through one view is visible through the other.
	if err := json.Delete("num"); err != nil {
		t.Fatalf("Delete through JSON view failed: %v", err)
	}
	if loaded, _ := strings.Has("num"); loaded {
		t.Errorf("Expected delete through JSON view to be visible through string view")
	}
}

func testEdgeCases(t *testing.T, store kv.IStore) {
	defer store.Close()
	view := store.Strings()

	// A stored empty string is distinguishable from absence.
	if err := view.Set("empty", ""); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, loaded, err := view.Get("empty")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !loaded || value != "" {
		t.Errorf("Expected stored empty string to be ('', true), got (%q, %v)", value, loaded)
	}

	// Empty key is a legal key.
	if err := view.Set("", "value"); err != nil {
		t.Fatalf("Set with empty key failed: %v", err)
	}
	if loaded, _ := view.Has(""); !loaded {
		t.Errorf("Expected empty key to exist")
	}

	// Keys and values survive non-ASCII and control characters.
	if err := view.Set("schlüssel\x00", "wert\n"); err != nil {
		t.Fatalf("Set with non-ASCII key failed: %v", err)
	}
	if value, _, _ := view.Get("schlüssel\x00"); value != "wert\n" {
		t.Errorf("Expected non-ASCII round trip, got %q", value)
	}
}

func testClose(t *testing.T, store kv.IStore) {
	// Grab both views and a cursor before the close.
	strings := store.Strings()
	json := store.JSON()

	if err := strings.Set("key", "value"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	cur, err := strings.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Every operation on either view must fail with ErrClosed, view
	// references obtained before the close included.
	assertViewClosed(t, "string view", viewOps(strings))
	assertViewClosed(t, "JSON view", viewOps(json))

	// The pre-close cursor fails at its next advance.
	if cur.Next() {
		t.Errorf("Expected pre-close cursor to stop after Close")
	}
	if !errors.Is(cur.Err(), kv.ErrClosed) {
		t.Errorf("Expected pre-close cursor to fail with ErrClosed, got %v", cur.Err())
	}

	// Double close is tolerated.
	if err := store.Close(); err != nil {
		t.Errorf("Second Close returned error: %v", err)
	}
}

// viewOps enumerates every operation of a view as named closures returning
// only the error.
func viewOps[V any](view kv.IView[V]) map[string]func() error {
	var zero V
	return map[string]func() error{
		"Get": func() error {
			_, _, err := view.Get("key")
			return err
		},
		"Set": func() error {
			return view.Set("key", zero)
		},
		"Has": func() error {
			_, err := view.Has("key")
			return err
		},
		"Delete": func() error {
			return view.Delete("key")
		},
		"Clear": func() error {
			return view.Clear()
		},
		"Size": func() error {
			_, err := view.Size()
			return err
		},
		"Keys": func() error {
			_, err := view.Keys()
			return err
		},
		"Values": func() error {
			_, err := view.Values()
			return err
		},
		"Entries": func() error {
			_, err := view.Entries()
			return err
		},
		"ForEach": func() error {
			return view.ForEach(func(string, V) error { return nil })
		},
	}
}

func assertViewClosed(t *testing.T, name string, ops map[string]func() error) {
	t.Helper()
	for op, call := range ops {
		if err := call(); !errors.Is(err, kv.ErrClosed) {
			t.Errorf("Expected %s %s to fail with ErrClosed after Close, got %v", name, op, err)
		}
	}
}

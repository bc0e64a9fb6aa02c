package kv_test

import (
	"errors"
	"testing"

	"github.com/tkvdb/tkv/lib/kv"
)

func mustOpenMemory(t *testing.T) kv.IStore {
	t.Helper()
	store, err := kv.Open(kv.Options{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestJSONNullVersusAbsent(t *testing.T) {
	store := mustOpenMemory(t)
	view := store.JSON()

	if err := view.Set("null", nil); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// A stored JSON null and an absent key both decode to a nil value; the
	// loaded flag is what tells them apart.
	value, loaded, err := view.Get("null")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != nil || !loaded {
		t.Errorf("Expected stored null to be (nil, true), got (%#v, %v)", value, loaded)
	}

	value, loaded, err = view.Get("absent")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != nil || loaded {
		t.Errorf("Expected absent key to be (nil, false), got (%#v, %v)", value, loaded)
	}

	if loaded, _ := view.Has("null"); !loaded {
		t.Errorf("Expected Has to confirm the stored null")
	}
	if loaded, _ := view.Has("absent"); loaded {
		t.Errorf("Expected Has to deny the absent key")
	}
}

func TestJSONViewRejectsUnencodableValue(t *testing.T) {
	store := mustOpenMemory(t)
	view := store.JSON()

	if err := view.Set("fn", func() {}); err == nil {
		t.Errorf("Expected Set with an unencodable value to fail")
	}
	// The failed Set must not have left a row behind.
	if loaded, _ := view.Has("fn"); loaded {
		t.Errorf("Expected no row after a failed Set")
	}
}

func TestJSONViewSurfacesMalformedText(t *testing.T) {
	store := mustOpenMemory(t)

	// Text written through the string view is not required to be JSON; the
	// JSON view reports the parse failure on read.
	if err := store.Strings().Set("bad", "{"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, _, err := store.JSON().Get("bad"); err == nil {
		t.Errorf("Expected Get of malformed JSON text to fail")
	}
}

// --------------------------------------------------------------------------
// Cursor behavior
// --------------------------------------------------------------------------

func TestCursorSinglePass(t *testing.T) {
	store := mustOpenMemory(t)
	view := store.Strings()

	for _, key := range []string{"a", "b", "c"} {
		if err := view.Set(key, key); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	cur, err := view.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	defer cur.Close()

	var count int
	for cur.Next() {
		count++
	}
	if err := cur.Err(); err != nil {
		t.Fatalf("Cursor failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 keys, got %d", count)
	}

	// An exhausted cursor stays exhausted.
	if cur.Next() {
		t.Errorf("Expected exhausted cursor to stay exhausted")
	}
	if err := cur.Err(); err != nil {
		t.Errorf("Expected no error on an exhausted cursor, got %v", err)
	}
}

func TestCursorIndependence(t *testing.T) {
	store := mustOpenMemory(t)
	view := store.Strings()

	for _, key := range []string{"a", "b"} {
		if err := view.Set(key, key); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	first, err := view.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if !first.Next() {
		t.Fatalf("Expected first cursor to yield an element")
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// A second call issues a new, independent sequence from the start.
	second, err := view.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	defer second.Close()

	var keys []string
	for second.Next() {
		keys = append(keys, second.Value())
	}
	if err := second.Err(); err != nil {
		t.Fatalf("Cursor failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("Expected fresh cursor to yield [a b], got %v", keys)
	}
}

func TestMutationDuringIterationDoesNotCrash(t *testing.T) {
	store := mustOpenMemory(t)
	view := store.Strings()

	for _, key := range []string{"a", "b", "c", "d"} {
		if err := view.Set(key, key); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	// Interleaved writes during iteration are implementation-defined in
	// what the cursor observes, but must not fail.
	cur, err := view.Entries()
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	defer cur.Close()

	for cur.Next() {
		if err := view.Set("e", "e"); err != nil {
			t.Fatalf("Set during iteration failed: %v", err)
		}
		if err := view.Delete("d"); err != nil {
			t.Fatalf("Delete during iteration failed: %v", err)
		}
	}
	if err := cur.Err(); err != nil {
		t.Fatalf("Cursor failed after interleaved writes: %v", err)
	}
}

func TestPointOpsWhileCursorOpen(t *testing.T) {
	store := mustOpenMemory(t)
	view := store.Strings()

	for _, key := range []string{"a", "b", "c"} {
		if err := view.Set(key, key); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	cur, err := view.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	defer cur.Close()
	if !cur.Next() {
		t.Fatalf("Expected cursor to yield an element")
	}

	// Every point operation must complete while the cursor still holds its
	// result set open; none may wait for the cursor to finish.
	if err := view.Set("d", "d"); err != nil {
		t.Fatalf("Set while cursor open failed: %v", err)
	}
	if value, loaded, err := view.Get("b"); err != nil || !loaded || value != "b" {
		t.Fatalf("Get while cursor open failed: (%q, %v, %v)", value, loaded, err)
	}
	if loaded, err := view.Has("a"); err != nil || !loaded {
		t.Fatalf("Has while cursor open failed: (%v, %v)", loaded, err)
	}
	if _, err := view.Size(); err != nil {
		t.Fatalf("Size while cursor open failed: %v", err)
	}
	if err := view.Delete("c"); err != nil {
		t.Fatalf("Delete while cursor open failed: %v", err)
	}

	for cur.Next() {
	}
	if err := cur.Err(); err != nil {
		t.Fatalf("Cursor failed after interleaved point operations: %v", err)
	}
}

func TestForEachCallbackCanTouchStore(t *testing.T) {
	store := mustOpenMemory(t)
	view := store.Strings()

	for _, key := range []string{"a", "b", "c"} {
		if err := view.Set(key, key); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	// The default iteration entry point must tolerate callbacks that read
	// and write through the same handle.
	err := view.ForEach(func(key, value string) error {
		if _, _, err := view.Get(key); err != nil {
			return err
		}
		return view.Set("seen/"+key, value)
	})
	if err != nil {
		t.Fatalf("ForEach with store-touching callback failed: %v", err)
	}

	for _, key := range []string{"seen/a", "seen/b", "seen/c"} {
		if loaded, _ := view.Has(key); !loaded {
			t.Errorf("Expected %q to have been written during iteration", key)
		}
	}
}

func TestForEachStopsOnError(t *testing.T) {
	store := mustOpenMemory(t)
	view := store.Strings()

	for _, key := range []string{"a", "b", "c"} {
		if err := view.Set(key, key); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	sentinel := errors.New("stop")
	var visited int
	err := view.ForEach(func(key, value string) error {
		visited++
		if key == "b" {
			return sentinel
		}
		return nil
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("Expected sentinel error, got %v", err)
	}
	if visited != 2 {
		t.Errorf("Expected iteration to stop after b, visited %d", visited)
	}
}

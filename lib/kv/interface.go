package kv

import (
	"errors"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// Entry is a single key-value pair as yielded by Entries and ForEach.
type Entry[V any] struct {
	Key   string
	Value V
}

// IStore is the handle for an opened key-value store. It bundles the two
// typed views and the close operation. All resources are acquired at Open
// and must be released exactly once with Close.
type IStore interface {
	// Strings returns the string-typed view of the store. Values are read
	// and written as raw text.
	Strings() IView[string]
	// JSON returns the JSON-typed view of the store. Values are serialized
	// to their canonical JSON text form before storing and parsed back on
	// every read. Both views observe the same underlying rows.
	JSON() IView[any]
	// Close releases every prepared statement and the backing database
	// handle. The transition is one-way: after Close, every operation on
	// either view fails with ErrClosed, including cursors obtained before
	// the call. Calling Close again on an already closed store is a no-op.
	Close() error
}

// IView is the generic interface for interacting with one typed view of the
// store. Read operations return the requested data along with an error (nil
// on success); the boolean return of Get and Has reports whether a row with
// the given key exists.
type IView[V any] interface {
	// Get returns the value for a key. The boolean return value indicates
	// whether a row for the key was found; an absent key is not an error.
	Get(key string) (value V, loaded bool, err error)
	// Set inserts or updates a key-value pair. The upsert is atomic with
	// respect to a single call.
	Set(key string, value V) error
	// Has returns whether a row with the given key exists.
	Has(key string) (loaded bool, err error)
	// Delete removes the row with the given key. Deleting an absent key is
	// a no-op, not an error.
	Delete(key string) error
	// Clear removes every row, unconditionally.
	Clear() error
	// Size returns the number of rows currently stored.
	Size() (int, error)
	// Keys returns a cursor over all keys, sorted lexicographically
	// ascending. The cursor is lazy and single-pass; calling Keys again
	// issues a new, independent scan.
	Keys() (*Cursor[string], error)
	// Values returns a cursor over all values, ordered by their key
	// ascending. Lazy and single-pass like Keys.
	Values() (*Cursor[V], error)
	// Entries returns a cursor over all rows, sorted lexicographically
	// ascending by key. Lazy and single-pass like Keys.
	Entries() (*Cursor[Entry[V]], error)
	// ForEach calls fn for every row in ascending key order. It is the
	// view's default iteration entry point and is identical in content to
	// Entries. Iteration stops at the first error returned by fn, which is
	// then returned to the caller.
	ForEach(fn func(key string, value V) error) error
}

// --------------------------------------------------------------------------
// Errors
// --------------------------------------------------------------------------

// ErrClosed is returned by every operation invoked after the store's Close.
// It is fatal to that call and not retryable; a closed store cannot be
// reopened.
var ErrClosed = errors.New("kv: store is closed")

// ErrConflictingOptions is returned by Open when the caller selects both the
// in-memory backing and a file path. The two are mutually exclusive and the
// conflict is rejected eagerly, before any file is touched.
var ErrConflictingOptions = errors.New("kv: Memory and Path are mutually exclusive")

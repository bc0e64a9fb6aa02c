// Package kv provides a persistent or in-memory key-value store backed by a
// single SQLite table, exposed through two independently typed views: a raw
// string view and a JSON view layered on top of the same rows.
//
// The package focuses on:
//   - A unified view interface (IView) exposing CRUD and iteration over the store
//   - Two typed facades over one physical table, kept in sync by construction
//   - A strict open/close lifecycle with manual resource management
//   - Lazy, restartable cursors for key, value, and entry iteration
//
// Key Components:
//
//   - IStore Interface: The handle for an opened store. It bundles the two
//     views and the Close operation. A handle is acquired with Open and must
//     be released exactly once with Close; a handle that is never closed leaks
//     the underlying engine resources for the life of the process.
//
//   - IView Interface: The generic facade for interacting with one typed view
//     of the store. IView[string] operates on the stored text directly;
//     IView[any] transcodes values to and from their canonical JSON text form
//     on every read and write. Both views read and write the same rows: a
//     write through either view is immediately visible through the other.
//
//   - Lifecycle: The Open -> Closed transition is one-way. After Close, every
//     operation on either view - including cursors obtained before the close -
//     fails with ErrClosed at the moment of invocation. A closed handle cannot
//     be reopened.
//
//   - Backing: The physical storage medium is selected at Open time via
//     Options: an ephemeral in-memory database (the default) or a named file
//     path, created if absent. The schema is a single table
//     data(key TEXT PRIMARY KEY, value TEXT NOT NULL), created idempotently
//     on every open.
//
// Error Handling:
//
// The package raises exactly two kinds of errors. Engine-level failures (I/O,
// permissions, corrupt files) propagate unmodified from the SQLite driver and
// are never retried or wrapped by this layer. ErrClosed is returned by every
// operation invoked after Close. There is no partial-failure or degraded
// state: every operation either fully succeeds or fails synchronously.
//
// Concurrency:
//
// The store follows a single-threaded, synchronous-call model: one handle is
// used from one logical thread of control at a time, and every operation
// completes before the caller's next statement. There is no transactional
// isolation between a cursor still being iterated and a concurrent Set or
// Delete on the same handle; such interleaving must not crash but its
// observed order is implementation-defined.
//
// Related Packages:
//
// The kvtest package (github.com/tkvdb/tkv/lib/kv/kvtest) provides a
// standardized conformance suite and benchmarks for the store contract,
// driven by a StoreFactory so alternative backings can be validated against
// the same behavior.
package kv

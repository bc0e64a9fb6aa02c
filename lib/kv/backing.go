package kv

import (
	"database/sql"
	"fmt"
	"sync/atomic"

	_ "modernc.org/sqlite" // database/sql driver, pure Go
)

// --------------------------------------------------------------------------
// Backing Selection
// --------------------------------------------------------------------------

// Options selects the backing for a store. The zero value selects an
// ephemeral in-memory database.
type Options struct {
	// Path is the location of the database file. The file is created if
	// absent; ancestor directories are not, that is the caller's job.
	// The literal path ":memory:" selects the in-memory backing.
	Path string
	// Memory selects an ephemeral in-memory backing explicitly. Setting
	// Memory together with a non-empty Path is a caller contract violation
	// and is rejected by Open with ErrConflictingOptions.
	Memory bool
}

// memSeq names each in-memory store uniquely so separate handles in the same
// process never observe each other's rows.
var memSeq atomic.Uint64

// dsn resolves the options to a driver DSN.
func (o Options) dsn() (string, error) {
	if o.Memory && o.Path != "" {
		return "", ErrConflictingOptions
	}
	if o.Path == "" || o.Path == ":memory:" {
		// A named shared-cache database lets every pooled connection see
		// the same in-memory store; a plain :memory: DSN would give each
		// connection a private database. read_uncommitted keeps writers
		// from being table-locked out while a cursor is still reading.
		return fmt.Sprintf("file:tkv-mem-%d?mode=memory&cache=shared&_pragma=read_uncommitted(1)&_pragma=busy_timeout(10000)", memSeq.Add(1)), nil
	}
	// WAL lets point operations proceed while a cursor on another
	// connection still holds a read snapshot.
	return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)", o.Path), nil
}

// --------------------------------------------------------------------------
// Schema
// --------------------------------------------------------------------------

// schema is the complete persisted layout: a single table keyed on a unique
// text key, value never null. Created idempotently on every open.
const schema = `
CREATE TABLE IF NOT EXISTS data (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`

// openBacking opens the engine handle for the selected backing and ensures
// the table exists. Engine errors (inaccessible path, permissions, corrupt
// file) propagate unmodified to the caller.
//
// The pool is left free to hold more than one connection: a cursor keeps its
// result set open on one connection, so point operations need another to run
// on without waiting for the cursor to finish.
func openBacking(opts Options) (*sql.DB, error) {
	dsn, err := opts.dsn()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// This is also the first statement that actually touches the file, so
	// open-time I/O and permission errors surface here.
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

package kv

import (
	"context"
	"database/sql"
	"errors"
	"sync/atomic"
)

// --------------------------------------------------------------------------
// Store Implementation
// --------------------------------------------------------------------------

type storeImpl struct {
	db *sql.DB
	// anchor holds one connection for the handle's lifetime. An in-memory
	// shared-cache database lives only as long as some connection to it
	// exists, so the pool must never be allowed to drop to zero.
	anchor  *sql.Conn
	stmts   *statementSet
	closed  atomic.Bool
	strings IView[string]
	json    IView[any]
}

// Open opens a store against the backing selected by opts: an ephemeral
// in-memory database when opts is the zero value or Memory is set, a file
// path (created if absent) otherwise. The data table is created if it does
// not exist. Engine errors - an inaccessible path, missing permissions -
// propagate unmodified.
//
// The returned handle owns the engine resources until Close is called;
// a handle that is never closed leaks them for the life of the process.
func Open(opts Options) (IStore, error) {
	db, err := openBacking(opts)
	if err != nil {
		return nil, err
	}

	anchor, err := db.Conn(context.Background())
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	stmts, err := prepareStatements(db)
	if err != nil {
		_ = anchor.Close()
		_ = db.Close()
		return nil, err
	}

	s := &storeImpl{db: db, anchor: anchor, stmts: stmts}
	s.strings = &view[string]{store: s, codec: stringCodec{}}
	s.json = &view[any]{store: s, codec: jsonCodec{}}
	return s, nil
}

// isClosed reports whether Close has been called. Every public operation on
// both views checks this guard at the top of the call, which makes the
// closed state visible through view and cursor references obtained before
// the Close.
func (s *storeImpl) isClosed() bool {
	return s.closed.Load()
}

// --------------------------------------------------------------------------
// Interface Methods (docu see interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Strings() IView[string] {
	return s.strings
}

func (s *storeImpl) JSON() IView[any] {
	return s.json
}

func (s *storeImpl) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	// Statements first, then the anchor, then the engine handle that owns
	// them both.
	return errors.Join(s.stmts.Close(), s.anchor.Close(), s.db.Close())
}

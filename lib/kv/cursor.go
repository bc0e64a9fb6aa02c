package kv

import "database/sql"

// --------------------------------------------------------------------------
// Lazy Cursors
// --------------------------------------------------------------------------

// Cursor is a lazy, single-pass, forward-only sequence bound to a fresh
// query execution. Re-iterating requires a fresh call to the operation that
// produced it; cursors from separate calls are independent.
//
// Usage follows the sql.Rows pattern:
//
//	cur, err := view.Keys()
//	if err != nil { ... }
//	defer cur.Close()
//	for cur.Next() {
//	    key := cur.Value()
//	    ...
//	}
//	if err := cur.Err(); err != nil { ... }
type Cursor[T any] struct {
	store *storeImpl
	rows  *sql.Rows
	scan  func(*sql.Rows) (T, error)
	cur   T
	err   error
	done  bool
}

// newCursor executes the prepared statement and binds the result set to a
// cursor with the given row decoder.
func newCursor[T any](s *storeImpl, stmt *sql.Stmt, scan func(*sql.Rows) (T, error)) (*Cursor[T], error) {
	rows, err := stmt.Query()
	if err != nil {
		return nil, err
	}
	return &Cursor[T]{store: s, rows: rows, scan: scan}, nil
}

// Next advances the cursor to the next element. It returns false when the
// sequence is exhausted or an error occurred; Err distinguishes the two.
// The closed-handle check happens here, at each advance, so a cursor
// obtained before Close fails on its next use.
func (c *Cursor[T]) Next() bool {
	if c.done {
		return false
	}
	if c.store.isClosed() {
		c.err = ErrClosed
		c.done = true
		return false
	}
	if !c.rows.Next() {
		c.err = c.rows.Err()
		c.done = true
		return false
	}
	value, err := c.scan(c.rows)
	if err != nil {
		c.err = err
		c.done = true
		return false
	}
	c.cur = value
	return true
}

// Value returns the element the cursor currently points at. Only valid after
// a Next call that returned true.
func (c *Cursor[T]) Value() T {
	return c.cur
}

// Err returns the error that terminated iteration, if any. A nil Err after
// Next returned false means the sequence was consumed completely.
func (c *Cursor[T]) Err() error {
	return c.err
}

// Close releases the underlying result set. Closing an exhausted cursor is
// harmless.
func (c *Cursor[T]) Close() error {
	c.done = true
	return c.rows.Close()
}

package kv

import (
	"database/sql"
	"errors"
)

// --------------------------------------------------------------------------
// Typed View Implementation
// --------------------------------------------------------------------------

// view is the single implementation behind both typed facades. It owns no
// resources: it holds a reference to the store's statement set plus the
// value codec that distinguishes the string view from the JSON view. Storage
// is never duplicated between views.
type view[V any] struct {
	store *storeImpl
	codec codec[V]
}

// --------------------------------------------------------------------------
// Interface Methods (docu see interface.go)
// --------------------------------------------------------------------------

func (v *view[V]) Get(key string) (V, bool, error) {
	var zero V
	if v.store.isClosed() {
		return zero, false, ErrClosed
	}

	var raw string
	err := v.store.stmts.get.QueryRow(key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}

	value, err := v.codec.Decode(raw)
	if err != nil {
		return zero, false, err
	}
	return value, true, nil
}

func (v *view[V]) Set(key string, value V) error {
	if v.store.isClosed() {
		return ErrClosed
	}

	raw, err := v.codec.Encode(value)
	if err != nil {
		return err
	}
	_, err = v.store.stmts.set.Exec(key, raw)
	return err
}

func (v *view[V]) Has(key string) (bool, error) {
	if v.store.isClosed() {
		return false, ErrClosed
	}

	var loaded bool
	if err := v.store.stmts.has.QueryRow(key).Scan(&loaded); err != nil {
		return false, err
	}
	return loaded, nil
}

func (v *view[V]) Delete(key string) error {
	if v.store.isClosed() {
		return ErrClosed
	}

	_, err := v.store.stmts.del.Exec(key)
	return err
}

func (v *view[V]) Clear() error {
	if v.store.isClosed() {
		return ErrClosed
	}

	_, err := v.store.stmts.clear.Exec()
	return err
}

func (v *view[V]) Size() (int, error) {
	if v.store.isClosed() {
		return 0, ErrClosed
	}

	var size int
	if err := v.store.stmts.size.QueryRow().Scan(&size); err != nil {
		return 0, err
	}
	return size, nil
}

func (v *view[V]) Keys() (*Cursor[string], error) {
	if v.store.isClosed() {
		return nil, ErrClosed
	}

	return newCursor(v.store, v.store.stmts.keys, func(rows *sql.Rows) (string, error) {
		var key string
		err := rows.Scan(&key)
		return key, err
	})
}

func (v *view[V]) Values() (*Cursor[V], error) {
	if v.store.isClosed() {
		return nil, ErrClosed
	}

	return newCursor(v.store, v.store.stmts.values, func(rows *sql.Rows) (V, error) {
		var zero V
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return zero, err
		}
		return v.codec.Decode(raw)
	})
}

func (v *view[V]) Entries() (*Cursor[Entry[V]], error) {
	if v.store.isClosed() {
		return nil, ErrClosed
	}

	return newCursor(v.store, v.store.stmts.entries, func(rows *sql.Rows) (Entry[V], error) {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return Entry[V]{}, err
		}
		value, err := v.codec.Decode(raw)
		if err != nil {
			return Entry[V]{}, err
		}
		return Entry[V]{Key: key, Value: value}, nil
	})
}

func (v *view[V]) ForEach(fn func(key string, value V) error) error {
	cur, err := v.Entries()
	if err != nil {
		return err
	}
	defer cur.Close()

	for cur.Next() {
		entry := cur.Value()
		if err := fn(entry.Key, entry.Value); err != nil {
			return err
		}
	}
	return cur.Err()
}

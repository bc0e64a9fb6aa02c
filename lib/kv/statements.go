package kv

import (
	"database/sql"
	"errors"
)

// --------------------------------------------------------------------------
// Statement Set
// --------------------------------------------------------------------------

// statementSet holds the nine parameterized operations against the data
// table, prepared once at Open and reused for the handle's lifetime.
type statementSet struct {
	clear   *sql.Stmt // DELETE every row
	del     *sql.Stmt // DELETE one key, no-op if absent
	get     *sql.Stmt // SELECT value for one key
	has     *sql.Stmt // EXISTS check for one key
	keys    *sql.Stmt // SELECT all keys, key ascending
	entries *sql.Stmt // SELECT all rows, key ascending
	set     *sql.Stmt // atomic upsert
	size    *sql.Stmt // COUNT rows
	values  *sql.Stmt // SELECT all values, key ascending
}

// prepareStatements prepares the full statement set. On any failure the
// already prepared statements are released and the engine error is returned
// unmodified.
func prepareStatements(db *sql.DB) (*statementSet, error) {
	s := &statementSet{}

	for _, stmt := range []struct {
		target **sql.Stmt
		query  string
	}{
		{&s.clear, `DELETE FROM data`},
		{&s.del, `DELETE FROM data WHERE key = ?`},
		{&s.get, `SELECT value FROM data WHERE key = ?`},
		{&s.has, `SELECT EXISTS(SELECT 1 FROM data WHERE key = ?)`},
		{&s.keys, `SELECT key FROM data ORDER BY key`},
		{&s.entries, `SELECT key, value FROM data ORDER BY key`},
		{&s.set, `INSERT INTO data (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`},
		{&s.size, `SELECT COUNT(*) FROM data`},
		{&s.values, `SELECT value FROM data ORDER BY key`},
	} {
		prepared, err := db.Prepare(stmt.query)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		*stmt.target = prepared
	}

	return s, nil
}

// Close releases every prepared statement. All statements are closed even if
// some fail; the errors are joined.
func (s *statementSet) Close() error {
	var errs []error
	for _, stmt := range []*sql.Stmt{
		s.clear, s.del, s.get, s.has, s.keys, s.entries, s.set, s.size, s.values,
	} {
		if stmt == nil {
			continue
		}
		if err := stmt.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

package history

import (
	"database/sql"
)

// DB exposes the internal *sql.DB for test helpers in history_test.
// This file only compiles during `go test`.
func (s *Store) DB() *sql.DB {
	return s.db
}

// FailWrites makes every subsequent exec return err.
func (s *Store) FailWrites(err error) {
	s.hooks.exec = func(execer, string, ...any) (sql.Result, error) {
		return nil, err
	}
}

// FailQueries makes every subsequent multi-row query return err.
func (s *Store) FailQueries(err error) {
	s.hooks.queryIt = func(queryer, string, ...any) (rowScanner, error) {
		return nil, err
	}
}

// SetOpenDB swaps the sql.Open used by New and returns a restore func.
func SetOpenDB(fn func(driverName, dsn string) (*sql.DB, error)) func() {
	prev := openDB
	openDB = fn
	return func() { openDB = prev }
}

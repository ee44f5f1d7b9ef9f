package database

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an operation requires an entity that does
// not exist (e.g. renaming a missing schedule). Plain lookups return
// nil, nil instead.
var ErrNotFound = errors.New("not found")

// InitializationError means a store's schema or seed load failed. The store
// stays uninitialized and the next call retries from scratch.
type InitializationError struct {
	Store string
	Err   error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("failed to initialize %s store: %v", e.Store, e.Err)
}

func (e *InitializationError) Unwrap() error { return e.Err }

// QueryError marks a failed sub-query against one category table. Callers
// log it and keep the partial results from the other tables.
type QueryError struct {
	Table string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query against %s failed: %v", e.Table, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// PersistenceError means both the remote backend and the local fallback
// failed; there is no further tier to try and the caller must surface it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

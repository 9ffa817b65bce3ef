package sheetorm

import (
	"errors"
	"fmt"
)

// SchemaError reports an invalid table schema, e.g. zero or multiple
// primary-key columns. Fatal at table construction.
type SchemaError struct {
	Table string
	Msg   string
}

func (e *SchemaError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("schema error: %s", e.Msg)
	}
	return fmt.Sprintf("schema error in table %s: %s", e.Table, e.Msg)
}

// NotFoundError reports a missing table or a lookup that matched nothing
// where a match was required.
type NotFoundError struct {
	Table string
	What  string
}

func (e *NotFoundError) Error() string {
	if e.What == "" {
		return fmt.Sprintf("table %s not found", e.Table)
	}
	return fmt.Sprintf("table %s: %s not found", e.Table, e.What)
}

// DuplicateKeyError reports a create with a primary-key value already held
// by another record.
type DuplicateKeyError struct {
	Table string
	Field string
	Value any
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("table %s: duplicate value %v for primary key %s", e.Table, e.Value, e.Field)
}

// StorageError wraps a failure from the backing store. On a write-through
// path the in-memory cache may already hold the intended state; callers
// needing strict consistency should Load() to resynchronize.
type StorageError struct {
	Op    string
	Table string
	Err   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s on table %s: %v", e.Op, e.Table, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a NotFoundError anywhere in its chain.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsDuplicateKey reports whether err is a DuplicateKeyError.
func IsDuplicateKey(err error) bool {
	var dk *DuplicateKeyError
	return errors.As(err, &dk)
}

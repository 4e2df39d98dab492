package postgres

import (
	"errors"
	"fmt"
)

var (
	// ErrPersistence matches every PersistenceError.
	ErrPersistence = errors.New("persistence error")
	// ErrNotFound is returned by reads when no row matches the natural key.
	ErrNotFound = errors.New("not found")
)

// PersistenceError is returned when applying a block failed and was rolled back.
type PersistenceError struct {
	Op     string
	Height uint64
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("apply block %d: %s: %v", e.Height, e.Op, e.Err)
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

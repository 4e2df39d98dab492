package chain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches NotFoundError.
	ErrNotFound = errors.New("block not found")
	// ErrTransport matches TransportError.
	ErrTransport = errors.New("chain transport failure")
	// ErrUnexpectedBlock is returned by a normalizer handed a block of another chain model.
	ErrUnexpectedBlock = errors.New("unexpected raw block type")
)

// NotFoundError reports that the requested height has no block yet.
type NotFoundError struct {
	Height uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("block %d not found", e.Height)
}

// Is makes errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// TransportError wraps a network or protocol failure of a source call.
type TransportError struct {
	Op  string
	Err error
}

// NewTransportError wraps err, returning nil when err is nil.
func NewTransportError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{Op: op, Err: err}
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Is makes errors.Is(err, ErrTransport) match.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

package indexer

import (
	"errors"
	"fmt"
)

var (
	// ErrParentMismatch is returned when a block does not chain to the last indexed hash.
	ErrParentMismatch = errors.New("parent hash mismatch")
	// ErrUnknownNetwork is returned by Trigger for a network without a runner.
	ErrUnknownNetwork = errors.New("unknown network")
)

func parentMismatch(height uint64, want, got string) error {
	return fmt.Errorf("%w at height %d: expected %s, got %s", ErrParentMismatch, height, want, got)
}

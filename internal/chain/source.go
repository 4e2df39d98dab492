// Package chain defines the contract shared by network-specific block sources and normalizers.
package chain

import (
	"context"

	"github.com/goodnatureofminers/chainwalker/internal/model"
)

// RawBlock is a block as returned by a source, before normalization.
type RawBlock interface {
	Height() uint64
	Hash() string
	ParentHash() string
}

// Source fetches blocks from a node or block explorer.
type Source interface {
	// Connect (re)creates the underlying connection and verifies it responds.
	Connect(ctx context.Context) error
	CurrentHeight(ctx context.Context) (uint64, error)
	// FetchBlock returns a NotFoundError when the height has no block yet and a
	// TransportError when the endpoint could not be reached.
	FetchBlock(ctx context.Context, height uint64) (RawBlock, error)
}

// Normalizer maps a raw block of one chain model into the canonical schema.
type Normalizer interface {
	Normalize(raw RawBlock) (*model.NormalizedBlock, error)
}

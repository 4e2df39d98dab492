package indexer

import (
	"context"
	"time"

	"github.com/goodnatureofminers/chainwalker/internal/chain"
	"github.com/goodnatureofminers/chainwalker/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Source interface {
		Connect(ctx context.Context) error
		CurrentHeight(ctx context.Context) (uint64, error)
		FetchBlock(ctx context.Context, height uint64) (chain.RawBlock, error)
	}
	Normalizer interface {
		Normalize(raw chain.RawBlock) (*model.NormalizedBlock, error)
	}
	Store interface {
		LoadState(ctx context.Context, networkID int64) (*model.IndexerState, error)
		SaveState(ctx context.Context, networkID int64, update model.IndexerStateUpdate) error
		ApplyBlock(ctx context.Context, block *model.NormalizedBlock) error
	}
	Metrics interface {
		ObserveCycle(outcome string, started time.Time)
		ObserveBlock(err error, height uint64, started time.Time)
		SetSafeHeight(height uint64)
	}
)

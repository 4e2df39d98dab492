package transport

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

import (
	"context"

	"github.com/goodnatureofminers/chainwalker/internal/model"
	"github.com/goodnatureofminers/chainwalker/internal/service/indexer"
)

type (
	Reader interface {
		Networks(ctx context.Context) ([]model.Network, error)
		NetworkByName(ctx context.Context, name string) (*model.Network, error)
		Blocks(ctx context.Context, networkID int64, offset, limit int) (model.Page[model.BlockView], error)
		BlockByHash(ctx context.Context, networkID int64, hash string) (*model.BlockView, error)
		BlockByHeight(ctx context.Context, networkID int64, height uint64) (*model.BlockView, error)
		BlockTransactions(ctx context.Context, networkID int64, blockHash string, offset, limit int) (model.Page[model.TransactionView], error)
		TransactionByHash(ctx context.Context, networkID int64, hash string) (*model.TransactionView, error)
		Address(ctx context.Context, networkID int64, address string) (*model.AddressView, error)
		AddressTransactions(ctx context.Context, networkID int64, address string, offset, limit int) (model.Page[model.TransactionView], error)
		UTXOs(ctx context.Context, networkID int64, address string, offset, limit int) (model.Page[model.OutputView], error)
		State(ctx context.Context, networkID int64) (*model.IndexerState, error)
		Stats(ctx context.Context, networkID int64) (*model.NetworkStats, error)
	}

	Trigger interface {
		Trigger(ctx context.Context, network string) (indexer.CycleResult, error)
	}

	Probe interface {
		Network() model.Network
		Healthy() bool
	}
)

package ethereum

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// RPCMetrics records metrics for JSON-RPC calls.
	RPCMetrics interface {
		Observe(operation string, err error, started time.Time)
	}

	// Client is the subset of ethclient used by Source.
	Client interface {
		ChainID(ctx context.Context) (*big.Int, error)
		BlockNumber(ctx context.Context) (uint64, error)
		BlockByNumber(ctx context.Context, number *big.Int) (*types.Block, error)
		TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
		Close()
	}
)

package bitcoin

import (
	"context"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// RPCMetrics records metrics for node and explorer calls.
	RPCMetrics interface {
		Observe(operation string, err error, started time.Time)
	}

	// EsploraAPI is the subset of the Esplora REST API used by EsploraSource.
	EsploraAPI interface {
		TipHeight(ctx context.Context) (uint64, error)
		TipHash(ctx context.Context) (string, error)
		BlockHash(ctx context.Context, height uint64) (string, error)
		Block(ctx context.Context, hash string) (*Block, error)
		BlockTxs(ctx context.Context, hash string, start int) ([]Tx, error)
	}

	// RPCClient is the subset of the bitcoind JSON-RPC API used by RPCSource.
	RPCClient interface {
		GetBlockCount(ctx context.Context) (int64, error)
		GetBlockHash(ctx context.Context, height int64) (*chainhash.Hash, error)
		GetBlockVerboseTx(ctx context.Context, hash *chainhash.Hash) (*btcjson.GetBlockVerboseTxResult, error)
		Shutdown()
	}
)

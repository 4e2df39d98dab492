package bitcoin

import (
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/goodnatureofminers/chainwalker/internal/chain"
	"github.com/goodnatureofminers/chainwalker/pkg/safe"
	"go.uber.org/zap"
)

// RPCSource implements chain.Source over a bitcoind JSON-RPC endpoint.
type RPCSource struct {
	dial   func() (RPCClient, error)
	rpc    RPCClient
	logger *zap.Logger
}

// NewRPCSource creates an RPCSource. dial is invoked on every Connect.
func NewRPCSource(dial func() (RPCClient, error), logger *zap.Logger) *RPCSource {
	return &RPCSource{
		dial:   dial,
		logger: logger.Named("rpc_source"),
	}
}

// Connect replaces the RPC client and checks the node answers.
func (s *RPCSource) Connect(ctx context.Context) error {
	rpc, err := s.dial()
	if err != nil {
		return chain.NewTransportError("dial bitcoind", err)
	}
	count, err := rpc.GetBlockCount(ctx)
	if err != nil {
		rpc.Shutdown()
		return chain.NewTransportError("get block count", err)
	}
	if s.rpc != nil {
		s.rpc.Shutdown()
	}
	s.rpc = rpc
	s.logger.Info("connected", zap.Int64("block_count", count))
	return nil
}

// CurrentHeight returns the node's best height.
func (s *RPCSource) CurrentHeight(ctx context.Context) (uint64, error) {
	if s.rpc == nil {
		return 0, chain.NewTransportError("get block count", errors.New("not connected"))
	}
	count, err := s.rpc.GetBlockCount(ctx)
	if err != nil {
		return 0, chain.NewTransportError("get block count", err)
	}
	height, err := safe.Uint64(count)
	if err != nil {
		return 0, fmt.Errorf("block count overflow: %w", err)
	}
	return height, nil
}

// FetchBlock retrieves a block with verbose transactions at the given height.
func (s *RPCSource) FetchBlock(ctx context.Context, height uint64) (chain.RawBlock, error) {
	if s.rpc == nil {
		return nil, chain.NewTransportError("get block hash", errors.New("not connected"))
	}
	rpcHeight, err := safe.Int64(height)
	if err != nil {
		return nil, fmt.Errorf("block height %d exceeds rpc limit: %w", height, err)
	}

	hash, err := s.rpc.GetBlockHash(ctx, rpcHeight)
	if err != nil {
		if isOutOfRange(err) {
			return nil, &chain.NotFoundError{Height: height}
		}
		return nil, chain.NewTransportError(fmt.Sprintf("get block hash at height %d", height), err)
	}
	src, err := s.rpc.GetBlockVerboseTx(ctx, hash)
	if err != nil {
		return nil, chain.NewTransportError(fmt.Sprintf("get block %s", hash), err)
	}
	return BlockFromVerbose(src)
}

func isOutOfRange(err error) bool {
	var rpcErr *btcjson.RPCError
	return errors.As(err, &rpcErr) && rpcErr.Code == btcjson.ErrRPCInvalidParameter
}

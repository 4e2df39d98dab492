package bitcoin

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/chainwalker/internal/chain"
	"go.uber.org/zap"
)

// esploraPageSize is the fixed page length of /block/{hash}/txs.
const esploraPageSize = 25

// EsploraSource implements chain.Source over the Esplora REST API.
type EsploraSource struct {
	api    EsploraAPI
	logger *zap.Logger
}

// NewEsploraSource creates an EsploraSource.
func NewEsploraSource(api EsploraAPI, logger *zap.Logger) *EsploraSource {
	return &EsploraSource{
		api:    api,
		logger: logger.Named("esplora_source"),
	}
}

// Connect checks that the explorer answers with a tip.
func (s *EsploraSource) Connect(ctx context.Context) error {
	height, err := s.api.TipHeight(ctx)
	if err != nil {
		return chain.NewTransportError("get tip height", err)
	}
	hash, err := s.api.TipHash(ctx)
	if err != nil {
		return chain.NewTransportError("get tip hash", err)
	}
	s.logger.Info("connected", zap.Uint64("tip_height", height), zap.String("tip_hash", hash))
	return nil
}

// CurrentHeight returns the explorer's tip height.
func (s *EsploraSource) CurrentHeight(ctx context.Context) (uint64, error) {
	height, err := s.api.TipHeight(ctx)
	if err != nil {
		return 0, chain.NewTransportError("get tip height", err)
	}
	return height, nil
}

// FetchBlock retrieves the block at height with all of its transactions.
func (s *EsploraSource) FetchBlock(ctx context.Context, height uint64) (chain.RawBlock, error) {
	hash, err := s.api.BlockHash(ctx, height)
	if err != nil {
		if errors.Is(err, ErrHTTPNotFound) {
			return nil, &chain.NotFoundError{Height: height}
		}
		return nil, chain.NewTransportError(fmt.Sprintf("get block hash at height %d", height), err)
	}

	block, err := s.api.Block(ctx, hash)
	if err != nil {
		return nil, chain.NewTransportError(fmt.Sprintf("get block %s", hash), err)
	}

	txs := make([]Tx, 0, block.TxCount)
	for start := 0; len(txs) < int(block.TxCount); start += esploraPageSize {
		page, err := s.api.BlockTxs(ctx, hash, start)
		if err != nil {
			return nil, chain.NewTransportError(fmt.Sprintf("get block %s txs at %d", hash, start), err)
		}
		if len(page) == 0 {
			return nil, chain.NewTransportError(
				fmt.Sprintf("get block %s txs at %d", hash, start),
				fmt.Errorf("empty page after %d of %d transactions", len(txs), block.TxCount),
			)
		}
		txs = append(txs, page...)
	}
	block.Txs = txs

	return block, nil
}

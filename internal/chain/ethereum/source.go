package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goodnatureofminers/chainwalker/internal/chain"
	"github.com/goodnatureofminers/chainwalker/pkg/safe"
	"github.com/goodnatureofminers/chainwalker/pkg/workerpool"
	"go.uber.org/zap"
)

const defaultReceiptWorkers = 8

// Source implements chain.Source over an Ethereum JSON-RPC endpoint.
type Source struct {
	dial           func(ctx context.Context) (Client, error)
	client         Client
	signer         types.Signer
	receiptWorkers int
	logger         *zap.Logger
}

// NewSource creates a Source. dial is invoked on every Connect; receiptWorkers bounds
// the concurrent receipt lookups of one block.
func NewSource(dial func(ctx context.Context) (Client, error), receiptWorkers int, logger *zap.Logger) *Source {
	if receiptWorkers < 1 {
		receiptWorkers = defaultReceiptWorkers
	}
	return &Source{
		dial:           dial,
		receiptWorkers: receiptWorkers,
		logger:         logger.Named("ethereum_source"),
	}
}

// Connect replaces the client and resolves the chain id used to recover senders.
func (s *Source) Connect(ctx context.Context) error {
	client, err := s.dial(ctx)
	if err != nil {
		return chain.NewTransportError("dial", err)
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return chain.NewTransportError("get chain id", err)
	}
	if s.client != nil {
		s.client.Close()
	}
	s.client = client
	s.signer = types.LatestSignerForChainID(chainID)
	s.logger.Info("connected", zap.String("chain_id", chainID.String()))
	return nil
}

// CurrentHeight returns the latest block number.
func (s *Source) CurrentHeight(ctx context.Context) (uint64, error) {
	if s.client == nil {
		return 0, chain.NewTransportError("get block number", errors.New("not connected"))
	}
	number, err := s.client.BlockNumber(ctx)
	if err != nil {
		return 0, chain.NewTransportError("get block number", err)
	}
	return number, nil
}

// FetchBlock retrieves the block with full transactions, derives each sender and
// attaches receipts. A receipt that cannot be fetched is left empty.
func (s *Source) FetchBlock(ctx context.Context, height uint64) (chain.RawBlock, error) {
	if s.client == nil {
		return nil, chain.NewTransportError("get block", errors.New("not connected"))
	}
	block, err := s.client.BlockByNumber(ctx, new(big.Int).SetUint64(height))
	if err != nil {
		if errors.Is(err, goethereum.NotFound) {
			return nil, &chain.NotFoundError{Height: height}
		}
		return nil, chain.NewTransportError(fmt.Sprintf("get block %d", height), err)
	}
	if block == nil {
		return nil, &chain.NotFoundError{Height: height}
	}

	txs := block.Transactions()
	raw := &Block{
		Number:       block.NumberU64(),
		BlockHash:    block.Hash().Hex(),
		Parent:       block.ParentHash().Hex(),
		Time:         block.Time(),
		Miner:        strings.ToLower(block.Coinbase().Hex()),
		Difficulty:   block.Difficulty(),
		GasUsed:      block.GasUsed(),
		GasLimit:     block.GasLimit(),
		Size:         block.Size(),
		BaseFee:      block.BaseFee(),
		Transactions: make([]Transaction, 0, len(txs)),
	}

	for i, tx := range txs {
		from, err := types.Sender(s.signer, tx)
		if err != nil {
			return nil, fmt.Errorf("derive sender of tx %s: %w", tx.Hash().Hex(), err)
		}
		index, err := safe.Uint32(i)
		if err != nil {
			return nil, fmt.Errorf("tx %s index overflow: %w", tx.Hash().Hex(), err)
		}
		converted := Transaction{
			Hash:     tx.Hash().Hex(),
			Index:    index,
			From:     strings.ToLower(from.Hex()),
			Value:    tx.Value(),
			GasPrice: tx.GasPrice(),
			Gas:      tx.Gas(),
			Nonce:    tx.Nonce(),
			Input:    tx.Data(),
			Type:     tx.Type(),
		}
		if to := tx.To(); to != nil {
			addr := strings.ToLower(to.Hex())
			converted.To = &addr
		}
		raw.Transactions = append(raw.Transactions, converted)
	}

	receipts, err := workerpool.Map(ctx, s.receiptWorkers, txs, s.fetchReceipt)
	if err != nil {
		return nil, chain.NewTransportError(fmt.Sprintf("get receipts of block %d", height), err)
	}
	for i, receipt := range receipts {
		raw.Transactions[i].Receipt = receipt
	}

	return raw, nil
}

func (s *Source) fetchReceipt(ctx context.Context, tx *types.Transaction) (*Receipt, error) {
	receipt, err := s.client.TransactionReceipt(ctx, tx.Hash())
	if err != nil {
		s.logger.Warn("receipt unavailable", zap.String("tx", tx.Hash().Hex()), zap.Error(err))
		return nil, nil
	}
	return &Receipt{
		HasStatus:         len(receipt.PostState) == 0,
		Status:            receipt.Status,
		GasUsed:           receipt.GasUsed,
		EffectiveGasPrice: receipt.EffectiveGasPrice,
	}, nil
}

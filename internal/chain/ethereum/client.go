// Package ethereum implements the account-model block source and normalizer.
package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ObservedClient wraps ethclient with metrics instrumentation.
type ObservedClient struct {
	client     *ethclient.Client
	rpcMetrics RPCMetrics
}

// Dialer returns a dial function for Source that opens an observed client to url.
func Dialer(url string, rpcMetrics RPCMetrics) func(ctx context.Context) (Client, error) {
	return func(ctx context.Context) (Client, error) {
		client, err := ethclient.DialContext(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("dial %s: %w", url, err)
		}
		return &ObservedClient{client: client, rpcMetrics: rpcMetrics}, nil
	}
}

// ChainID returns the chain id used for EIP-155 signing.
func (c *ObservedClient) ChainID(ctx context.Context) (id *big.Int, err error) {
	started := time.Now()
	defer func() {
		c.rpcMetrics.Observe("chain_id", err, started)
	}()
	return c.client.ChainID(ctx)
}

// BlockNumber returns the most recent block number.
func (c *ObservedClient) BlockNumber(ctx context.Context) (number uint64, err error) {
	started := time.Now()
	defer func() {
		c.rpcMetrics.Observe("block_number", err, started)
	}()
	return c.client.BlockNumber(ctx)
}

// BlockByNumber returns a block with full transactions.
func (c *ObservedClient) BlockByNumber(ctx context.Context, number *big.Int) (block *types.Block, err error) {
	started := time.Now()
	defer func() {
		c.rpcMetrics.Observe("block_by_number", err, started)
	}()
	return c.client.BlockByNumber(ctx, number)
}

// TransactionReceipt returns the receipt of a mined transaction.
func (c *ObservedClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (receipt *types.Receipt, err error) {
	started := time.Now()
	defer func() {
		c.rpcMetrics.Observe("transaction_receipt", err, started)
	}()
	return c.client.TransactionReceipt(ctx, txHash)
}

// Close closes the underlying connection.
func (c *ObservedClient) Close() {
	c.client.Close()
}

// Package rpcclient wraps the btcd JSON-RPC client with metrics and context support.
package rpcclient

import (
	"context"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
)

type (
	RPCMetrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

// ObservedClient issues async btcd calls and abandons them when the context ends.
type ObservedClient struct {
	client     *rpcclient.Client
	rpcMetrics RPCMetrics
}

// Dial opens an HTTP POST mode client to a bitcoind node.
func Dial(host, user, pass string, disableTLS bool, rpcMetrics RPCMetrics) (*ObservedClient, error) {
	client, err := rpcclient.New(&rpcclient.ConnConfig{
		Host:         host,
		User:         user,
		Pass:         pass,
		HTTPPostMode: true,
		DisableTLS:   disableTLS,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("create rpc client: %w", err)
	}
	return NewObservedClient(client, rpcMetrics), nil
}

func NewObservedClient(client *rpcclient.Client, rpcMetrics RPCMetrics) *ObservedClient {
	return &ObservedClient{
		client:     client,
		rpcMetrics: rpcMetrics,
	}
}

func (r *ObservedClient) GetBlockCount(ctx context.Context) (count int64, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_block_count", err, started)
	}()
	return receive(ctx, r.client.GetBlockCountAsync().Receive)
}

func (r *ObservedClient) GetBlockHash(ctx context.Context, blockHeight int64) (hash *chainhash.Hash, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_block_hash", err, started)
	}()
	return receive(ctx, r.client.GetBlockHashAsync(blockHeight).Receive)
}

func (r *ObservedClient) GetBlockVerboseTx(ctx context.Context, blockHash *chainhash.Hash) (res *btcjson.GetBlockVerboseTxResult, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_block_verbose_tx", err, started)
	}()
	return receive(ctx, r.client.GetBlockVerboseTxAsync(blockHash).Receive)
}

// Shutdown stops the underlying client.
func (r *ObservedClient) Shutdown() {
	r.client.Shutdown()
}

type result[T any] struct {
	value T
	err   error
}

func receive[T any](ctx context.Context, wait func() (T, error)) (T, error) {
	done := make(chan result[T], 1)
	go func() {
		value, err := wait()
		done <- result[T]{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case res := <-done:
		return res.value, res.err
	}
}

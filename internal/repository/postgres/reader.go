package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/chainwalker/internal/model"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

const (
	blockColumns = `
	b.height,
	b.hash,
	b.parent_hash,
	b.block_timestamp,
	b.miner,
	b.difficulty::TEXT AS difficulty,
	b.gas_used::TEXT AS gas_used,
	b.gas_limit::TEXT AS gas_limit,
	b.size_bytes,
	b.weight,
	b.tx_count,
	b.status,
	b.data`

	transactionColumns = `
	t.tx_hash,
	t.tx_index,
	b.height AS block_height,
	b.hash AS block_hash,
	t.from_address,
	t.to_address,
	t.value::TEXT AS value,
	t.fee::TEXT AS fee,
	t.gas_price::TEXT AS gas_price,
	t.gas_used::TEXT AS gas_used,
	t.gas_limit::TEXT AS gas_limit,
	t.nonce,
	t.input_data,
	t.is_coinbase,
	t.status,
	t.data`
)

// Reader serves read-only lookups by natural key.
type Reader struct {
	conn    Queryer
	metrics Metrics
}

// NewReader creates a Reader over q.
func NewReader(q Queryer, metrics Metrics) *Reader {
	return &Reader{conn: q, metrics: metrics}
}

func (r *Reader) observe(operation string, err error, started time.Time) {
	if errors.Is(err, ErrNotFound) {
		err = nil
	}
	r.metrics.Observe(operation, err, started)
}

// Networks lists the active networks.
func (r *Reader) Networks(ctx context.Context) (_ []model.Network, err error) {
	start := time.Now()
	defer func() { r.observe("networks", err, start) }()

	var networks []model.Network
	if err = r.conn.SelectContext(ctx, &networks, `
SELECT id, name, symbol, chain_type
FROM networks
WHERE is_active = TRUE
ORDER BY id`); err != nil {
		return nil, fmt.Errorf("select networks: %w", err)
	}
	return networks, nil
}

// NetworkByName returns the network registered under name.
func (r *Reader) NetworkByName(ctx context.Context, name string) (_ *model.Network, err error) {
	start := time.Now()
	defer func() { r.observe("network_by_name", err, start) }()

	var network model.Network
	err = r.conn.GetContext(ctx, &network, `
SELECT id, name, symbol, chain_type
FROM networks
WHERE name = $1`, name)
	if err = getErr(err, "network %s", name); err != nil {
		return nil, err
	}
	return &network, nil
}

// Blocks pages through the blocks of a network, newest first.
func (r *Reader) Blocks(ctx context.Context, networkID int64, offset, limit int) (_ model.Page[model.BlockView], err error) {
	start := time.Now()
	defer func() { r.observe("blocks", err, start) }()

	page := newPage[model.BlockView](offset, limit)
	if err = r.conn.GetContext(ctx, &page.Total, `SELECT COUNT(*) FROM blocks WHERE network_id = $1`, networkID); err != nil {
		return page, fmt.Errorf("count blocks: %w", err)
	}
	if err = r.conn.SelectContext(ctx, &page.Items, `
SELECT`+blockColumns+`
FROM blocks b
WHERE b.network_id = $1
ORDER BY b.height DESC
LIMIT $2 OFFSET $3`, networkID, page.Limit, page.Offset); err != nil {
		return page, fmt.Errorf("select blocks: %w", err)
	}
	return page, nil
}

// BlockByHash returns the block of a network with the given hash.
func (r *Reader) BlockByHash(ctx context.Context, networkID int64, hash string) (_ *model.BlockView, err error) {
	start := time.Now()
	defer func() { r.observe("block_by_hash", err, start) }()

	var block model.BlockView
	err = r.conn.GetContext(ctx, &block, `
SELECT`+blockColumns+`
FROM blocks b
WHERE b.network_id = $1 AND b.hash = $2`, networkID, hash)
	if err = getErr(err, "block %s", hash); err != nil {
		return nil, err
	}
	return &block, nil
}

// BlockByHeight returns the block of a network at height.
func (r *Reader) BlockByHeight(ctx context.Context, networkID int64, height uint64) (_ *model.BlockView, err error) {
	start := time.Now()
	defer func() { r.observe("block_by_height", err, start) }()

	var block model.BlockView
	err = r.conn.GetContext(ctx, &block, `
SELECT`+blockColumns+`
FROM blocks b
WHERE b.network_id = $1 AND b.height = $2
ORDER BY b.id DESC
LIMIT 1`, networkID, height)
	if err = getErr(err, "block at height %d", height); err != nil {
		return nil, err
	}
	return &block, nil
}

// BlockTransactions pages through the transactions of a block in block order.
func (r *Reader) BlockTransactions(ctx context.Context, networkID int64, blockHash string, offset, limit int) (_ model.Page[model.TransactionView], err error) {
	start := time.Now()
	defer func() { r.observe("block_transactions", err, start) }()

	page := newPage[model.TransactionView](offset, limit)
	if err = r.conn.GetContext(ctx, &page.Total, `
SELECT COUNT(*)
FROM transactions t
JOIN blocks b ON b.id = t.block_id
WHERE b.network_id = $1 AND b.hash = $2`, networkID, blockHash); err != nil {
		return page, fmt.Errorf("count block transactions: %w", err)
	}
	if err = r.conn.SelectContext(ctx, &page.Items, `
SELECT`+transactionColumns+`
FROM transactions t
JOIN blocks b ON b.id = t.block_id
WHERE b.network_id = $1 AND b.hash = $2
ORDER BY t.tx_index
LIMIT $3 OFFSET $4`, networkID, blockHash, page.Limit, page.Offset); err != nil {
		return page, fmt.Errorf("select block transactions: %w", err)
	}
	return page, nil
}

// TransactionByHash returns a transaction with its inputs and outputs in index order.
func (r *Reader) TransactionByHash(ctx context.Context, networkID int64, hash string) (_ *model.TransactionView, err error) {
	start := time.Now()
	defer func() { r.observe("transaction_by_hash", err, start) }()

	var tx model.TransactionView
	err = r.conn.GetContext(ctx, &tx, `
SELECT`+transactionColumns+`
FROM transactions t
LEFT JOIN blocks b ON b.id = t.block_id
WHERE t.network_id = $1 AND t.tx_hash = $2`, networkID, hash)
	if err = getErr(err, "transaction %s", hash); err != nil {
		return nil, err
	}

	if err = r.conn.SelectContext(ctx, &tx.Inputs, `
SELECT
	i.vin_index,
	i.prev_tx_hash,
	i.prev_vout_index,
	i.address,
	i.value::TEXT AS value,
	i.is_coinbase,
	i.coinbase_data
FROM transaction_inputs i
JOIN transactions t ON t.id = i.transaction_id
WHERE t.network_id = $1 AND t.tx_hash = $2
ORDER BY i.vin_index`, networkID, hash); err != nil {
		return nil, fmt.Errorf("select inputs of %s: %w", hash, err)
	}
	if err = r.conn.SelectContext(ctx, &tx.Outputs, `
SELECT
	t.tx_hash,
	o.vout_index,
	o.address,
	o.value::TEXT AS value,
	o.script_type,
	o.is_spent,
	o.spent_by_tx,
	o.spent_at
FROM transaction_outputs o
JOIN transactions t ON t.id = o.transaction_id
WHERE t.network_id = $1 AND t.tx_hash = $2
ORDER BY o.vout_index`, networkID, hash); err != nil {
		return nil, fmt.Errorf("select outputs of %s: %w", hash, err)
	}
	return &tx, nil
}

// Address returns an address with the sum of its unspent outputs.
func (r *Reader) Address(ctx context.Context, networkID int64, address string) (_ *model.AddressView, err error) {
	start := time.Now()
	defer func() { r.observe("address", err, start) }()

	var view model.AddressView
	err = r.conn.GetContext(ctx, &view, `
SELECT
	a.address,
	a.tx_count,
	a.first_seen_at,
	a.last_seen_at,
	COALESCE((
		SELECT SUM(o.value)
		FROM transaction_outputs o
		JOIN transactions t ON t.id = o.transaction_id
		WHERE t.network_id = a.network_id AND o.address = a.address AND o.is_spent = FALSE
	), 0) AS balance
FROM addresses a
WHERE a.network_id = $1 AND a.address = $2`, networkID, address)
	if err = getErr(err, "address %s", address); err != nil {
		return nil, err
	}
	return &view, nil
}

// AddressTransactions pages through the transactions an address took part in, newest first.
func (r *Reader) AddressTransactions(ctx context.Context, networkID int64, address string, offset, limit int) (_ model.Page[model.TransactionView], err error) {
	start := time.Now()
	defer func() { r.observe("address_transactions", err, start) }()

	page := newPage[model.TransactionView](offset, limit)
	if err = r.conn.GetContext(ctx, &page.Total, `
SELECT COUNT(*)
FROM address_transactions
WHERE network_id = $1 AND address = $2`, networkID, address); err != nil {
		return page, fmt.Errorf("count address transactions: %w", err)
	}
	if err = r.conn.SelectContext(ctx, &page.Items, `
SELECT`+transactionColumns+`
FROM address_transactions at
JOIN transactions t ON t.network_id = at.network_id AND t.tx_hash = at.tx_hash
LEFT JOIN blocks b ON b.id = t.block_id
WHERE at.network_id = $1 AND at.address = $2
ORDER BY at.seen_at DESC, t.tx_index DESC
LIMIT $3 OFFSET $4`, networkID, address, page.Limit, page.Offset); err != nil {
		return page, fmt.Errorf("select address transactions: %w", err)
	}
	return page, nil
}

// UTXOs pages through the unspent outputs of an address, newest first.
func (r *Reader) UTXOs(ctx context.Context, networkID int64, address string, offset, limit int) (_ model.Page[model.OutputView], err error) {
	start := time.Now()
	defer func() { r.observe("utxos", err, start) }()

	page := newPage[model.OutputView](offset, limit)
	if err = r.conn.GetContext(ctx, &page.Total, `
SELECT COUNT(*)
FROM transaction_outputs o
JOIN transactions t ON t.id = o.transaction_id
WHERE t.network_id = $1 AND o.address = $2 AND o.is_spent = FALSE`, networkID, address); err != nil {
		return page, fmt.Errorf("count utxos: %w", err)
	}
	if err = r.conn.SelectContext(ctx, &page.Items, `
SELECT
	t.tx_hash,
	o.vout_index,
	o.address,
	o.value::TEXT AS value,
	o.script_type,
	o.is_spent,
	o.spent_by_tx,
	o.spent_at
FROM transaction_outputs o
JOIN transactions t ON t.id = o.transaction_id
LEFT JOIN blocks b ON b.id = t.block_id
WHERE t.network_id = $1 AND o.address = $2 AND o.is_spent = FALSE
ORDER BY b.height DESC NULLS LAST, t.tx_hash, o.vout_index
LIMIT $3 OFFSET $4`, networkID, address, page.Limit, page.Offset); err != nil {
		return page, fmt.Errorf("select utxos: %w", err)
	}
	return page, nil
}

// State returns the checkpoint of a network.
func (r *Reader) State(ctx context.Context, networkID int64) (_ *model.IndexerState, err error) {
	start := time.Now()
	defer func() { r.observe("state", err, start) }()

	state, err := loadState(ctx, r.conn, networkID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		err = fmt.Errorf("indexer state %d: %w", networkID, ErrNotFound)
		return nil, err
	}
	return state, nil
}

// Stats aggregates the indexed content of a network.
func (r *Reader) Stats(ctx context.Context, networkID int64) (_ *model.NetworkStats, err error) {
	start := time.Now()
	defer func() { r.observe("stats", err, start) }()

	var stats model.NetworkStats
	err = r.conn.GetContext(ctx, &stats, `
SELECT
	n.name,
	n.symbol,
	n.chain_type,
	COALESCE(i.last_indexed_height, 0) AS current_height,
	COALESCE(i.is_syncing, FALSE) AS is_syncing,
	i.last_indexed_at,
	i.error_message,
	(SELECT COUNT(*) FROM blocks WHERE network_id = n.id) AS total_blocks,
	(SELECT COUNT(*) FROM transactions WHERE network_id = n.id) AS total_transactions,
	(SELECT COUNT(*) FROM addresses WHERE network_id = n.id) AS total_addresses
FROM networks n
LEFT JOIN indexer_state i ON i.network_id = n.id
WHERE n.id = $1`, networkID)
	if err = getErr(err, "network %d", networkID); err != nil {
		return nil, err
	}
	return &stats, nil
}

func getErr(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	subject := fmt.Sprintf(format, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", subject, ErrNotFound)
	}
	return fmt.Errorf("get %s: %w", subject, err)
}

func newPage[T any](offset, limit int) model.Page[T] {
	if offset < 0 {
		offset = 0
	}
	switch {
	case limit <= 0:
		limit = DefaultPageLimit
	case limit > MaxPageLimit:
		limit = MaxPageLimit
	}
	return model.Page[T]{Items: []T{}, Offset: offset, Limit: limit}
}

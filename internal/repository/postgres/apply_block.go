package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/goodnatureofminers/chainwalker/internal/model"
)

const (
	upsertBlockQuery = `
INSERT INTO blocks (
	network_id,
	height,
	hash,
	parent_hash,
	block_timestamp,
	miner,
	difficulty,
	gas_used,
	gas_limit,
	size_bytes,
	weight,
	tx_count,
	status,
	data
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT (network_id, hash) DO UPDATE SET
	status = EXCLUDED.status,
	tx_count = EXCLUDED.tx_count,
	updated_at = NOW()
RETURNING id`

	upsertTransactionQuery = `
INSERT INTO transactions (
	network_id,
	block_id,
	tx_hash,
	tx_index,
	from_address,
	to_address,
	value,
	gas_price,
	gas_used,
	gas_limit,
	nonce,
	input_data,
	fee,
	status,
	is_coinbase,
	data
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
ON CONFLICT (network_id, tx_hash) DO UPDATE SET
	block_id = COALESCE(EXCLUDED.block_id, transactions.block_id),
	status = CASE WHEN EXCLUDED.status = 'PENDING' THEN transactions.status ELSE EXCLUDED.status END,
	gas_used = COALESCE(EXCLUDED.gas_used, transactions.gas_used),
	fee = COALESCE(EXCLUDED.fee, transactions.fee),
	updated_at = NOW()
RETURNING id`

	insertInputQuery = `
INSERT INTO transaction_inputs (
	transaction_id,
	vin_index,
	prev_tx_hash,
	prev_vout_index,
	address,
	value,
	script_sig,
	sequence,
	witness,
	is_coinbase,
	coinbase_data
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (transaction_id, vin_index) DO NOTHING`

	markOutputSpentQuery = `
UPDATE transaction_outputs o SET
	is_spent = TRUE,
	spent_by_tx = $1,
	spent_at = $2,
	updated_at = NOW()
FROM transactions t
WHERE o.transaction_id = t.id
	AND t.network_id = $3
	AND t.tx_hash = $4
	AND o.vout_index = $5
	AND o.is_spent = FALSE`

	insertOutputQuery = `
INSERT INTO transaction_outputs (
	transaction_id,
	vout_index,
	address,
	value,
	script_pubkey,
	script_type
) VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (transaction_id, vout_index) DO NOTHING`

	recordSightingQuery = `
WITH sighting AS (
	INSERT INTO address_transactions (network_id, address, tx_hash, seen_at)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (network_id, address, tx_hash) DO NOTHING
	RETURNING network_id, address, seen_at
)
INSERT INTO addresses (network_id, address, tx_count, first_seen_at, last_seen_at)
SELECT network_id, address, 1, seen_at, seen_at FROM sighting
ON CONFLICT (network_id, address) DO UPDATE SET
	tx_count = addresses.tx_count + 1,
	first_seen_at = LEAST(addresses.first_seen_at, EXCLUDED.first_seen_at),
	last_seen_at = GREATEST(addresses.last_seen_at, EXCLUDED.last_seen_at),
	updated_at = NOW()`

	advanceCheckpointQuery = `
INSERT INTO indexer_state (
	network_id,
	last_indexed_height,
	last_indexed_hash,
	last_indexed_at,
	is_syncing,
	error_message,
	updated_at
) VALUES ($1, $2, $3, NOW(), TRUE, NULL, NOW())
ON CONFLICT (network_id) DO UPDATE SET
	last_indexed_height = EXCLUDED.last_indexed_height,
	last_indexed_hash = EXCLUDED.last_indexed_hash,
	last_indexed_at = EXCLUDED.last_indexed_at,
	is_syncing = TRUE,
	error_message = NULL,
	updated_at = NOW()`
)

// ApplyBlock stores a normalized block with its transactions, inputs, outputs, address
// sightings and spent markers, and advances the checkpoint to it, in one transaction.
// Re-applying a block already stored leaves the same rows behind.
func (r *Repository) ApplyBlock(ctx context.Context, block *model.NormalizedBlock) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("apply_block", err, start)
	}()

	height := block.Block.Height
	tx, err := r.conn.Begin(ctx)
	if err != nil {
		return &PersistenceError{Op: "begin", Height: height, Err: err}
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = applyBlock(ctx, tx, block); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return &PersistenceError{Op: "commit", Height: height, Err: err}
	}
	return nil
}

func applyBlock(ctx context.Context, tx Tx, nb *model.NormalizedBlock) error {
	b := nb.Block
	fail := func(op string, err error) error {
		return &PersistenceError{Op: op, Height: b.Height, Err: err}
	}

	var blockID int64
	if err := tx.GetContext(ctx, &blockID, upsertBlockQuery,
		b.NetworkID,
		b.Height,
		b.Hash,
		b.ParentHash,
		b.Timestamp,
		b.Miner,
		b.Difficulty,
		b.GasUsed,
		b.GasLimit,
		b.SizeBytes,
		b.Weight,
		b.TxCount,
		string(b.Status),
		jsonb(b.Data),
	); err != nil {
		return fail("upsert block", err)
	}

	for _, t := range nb.Transactions {
		var txID int64
		if err := tx.GetContext(ctx, &txID, upsertTransactionQuery,
			b.NetworkID,
			blockID,
			t.Hash,
			t.Index,
			t.From,
			t.To,
			t.Value,
			t.GasPrice,
			t.GasUsed,
			t.GasLimit,
			t.Nonce,
			t.InputData,
			t.Fee,
			string(t.Status),
			t.IsCoinbase,
			jsonb(t.Data),
		); err != nil {
			return fail(fmt.Sprintf("upsert transaction %s", t.Hash), err)
		}

		for _, in := range t.Inputs {
			witness, err := witnessArg(in.Witness)
			if err != nil {
				return fail(fmt.Sprintf("encode witness %s:%d", t.Hash, in.Index), err)
			}
			if _, err := tx.ExecContext(ctx, insertInputQuery,
				txID,
				in.Index,
				in.PrevTxHash,
				in.PrevVoutIndex,
				in.PrevoutAddress,
				in.PrevoutValue,
				in.ScriptSig,
				in.Sequence,
				witness,
				in.IsCoinbase,
				in.CoinbaseData,
			); err != nil {
				return fail(fmt.Sprintf("insert input %s:%d", t.Hash, in.Index), err)
			}
		}

		for _, in := range t.Inputs {
			if !in.Spends() {
				continue
			}
			if _, err := tx.ExecContext(ctx, markOutputSpentQuery,
				t.Hash,
				b.Timestamp,
				b.NetworkID,
				*in.PrevTxHash,
				*in.PrevVoutIndex,
			); err != nil {
				return fail(fmt.Sprintf("mark spent %s:%d", *in.PrevTxHash, *in.PrevVoutIndex), err)
			}
		}

		for _, out := range t.Outputs {
			if _, err := tx.ExecContext(ctx, insertOutputQuery,
				txID,
				out.Index,
				out.Address.Ptr(),
				out.Value,
				optional(out.ScriptHex),
				optional(out.ScriptType),
			); err != nil {
				return fail(fmt.Sprintf("insert output %s:%d", t.Hash, out.Index), err)
			}
		}
	}

	for _, s := range nb.Sightings {
		if _, err := tx.ExecContext(ctx, recordSightingQuery,
			b.NetworkID,
			s.Address,
			s.TxHash,
			s.SeenAt,
		); err != nil {
			return fail(fmt.Sprintf("record address %s", s.Address), err)
		}
	}

	if _, err := tx.ExecContext(ctx, advanceCheckpointQuery, b.NetworkID, b.Height, b.Hash); err != nil {
		return fail("advance checkpoint", err)
	}
	return nil
}

// jsonb renders a document as a text parameter; lib/pq would send []byte as bytea.
func jsonb(doc json.RawMessage) *string {
	if len(doc) == 0 {
		return nil
	}
	s := string(doc)
	return &s
}

func witnessArg(witness []string) (*string, error) {
	if len(witness) == 0 {
		return nil, nil
	}
	doc, err := json.Marshal(witness)
	if err != nil {
		return nil, err
	}
	return jsonb(doc), nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

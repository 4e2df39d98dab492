package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RawJSON is a nullable JSONB column passed through to API responses untouched.
type RawJSON []byte

// Scan implements sql.Scanner.
func (r *RawJSON) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*r = nil
	case []byte:
		*r = append((*r)[:0], v...)
	case string:
		*r = RawJSON(v)
	default:
		return fmt.Errorf("scan %T into RawJSON", src)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (r RawJSON) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *RawJSON) UnmarshalJSON(data []byte) error {
	if r == nil {
		return errors.New("RawJSON: UnmarshalJSON on nil pointer")
	}
	*r = append((*r)[:0], data...)
	return nil
}

// BlockView is a stored block as returned by read queries.
type BlockView struct {
	Height     uint64    `db:"height" json:"height"`
	Hash       string    `db:"hash" json:"hash"`
	ParentHash string    `db:"parent_hash" json:"parent_hash"`
	Timestamp  time.Time `db:"block_timestamp" json:"timestamp"`
	Miner      *string   `db:"miner" json:"miner,omitempty"`
	Difficulty *string   `db:"difficulty" json:"difficulty,omitempty"`
	GasUsed    *string   `db:"gas_used" json:"gas_used,omitempty"`
	GasLimit   *string   `db:"gas_limit" json:"gas_limit,omitempty"`
	SizeBytes  *uint64   `db:"size_bytes" json:"size_bytes,omitempty"`
	Weight     *uint64   `db:"weight" json:"weight,omitempty"`
	TxCount    uint32    `db:"tx_count" json:"tx_count"`
	Status     string    `db:"status" json:"status"`
	Data       RawJSON   `db:"data" json:"data"`
}

// TransactionView is a stored transaction with the height of its block.
type TransactionView struct {
	Hash        string  `db:"tx_hash" json:"hash"`
	Index       uint32  `db:"tx_index" json:"index"`
	BlockHeight *uint64 `db:"block_height" json:"block_height,omitempty"`
	BlockHash   *string `db:"block_hash" json:"block_hash,omitempty"`
	From        *string `db:"from_address" json:"from,omitempty"`
	To          *string `db:"to_address" json:"to,omitempty"`
	Value       string  `db:"value" json:"value"`
	Fee         *string `db:"fee" json:"fee,omitempty"`
	GasPrice    *string `db:"gas_price" json:"gas_price,omitempty"`
	GasUsed     *string `db:"gas_used" json:"gas_used,omitempty"`
	GasLimit    *string `db:"gas_limit" json:"gas_limit,omitempty"`
	Nonce       *uint64 `db:"nonce" json:"nonce,omitempty"`
	InputData   *string `db:"input_data" json:"input_data,omitempty"`
	IsCoinbase  bool    `db:"is_coinbase" json:"is_coinbase"`
	Status      string  `db:"status" json:"status"`
	Data        RawJSON `db:"data" json:"data"`

	Inputs  []InputView  `db:"-" json:"inputs,omitempty"`
	Outputs []OutputView `db:"-" json:"outputs,omitempty"`
}

// InputView is a stored transaction input.
type InputView struct {
	Index         uint32  `db:"vin_index" json:"index"`
	PrevTxHash    *string `db:"prev_tx_hash" json:"prev_tx_hash,omitempty"`
	PrevVoutIndex *uint32 `db:"prev_vout_index" json:"prev_vout_index,omitempty"`
	Address       *string `db:"address" json:"address,omitempty"`
	Value         *string `db:"value" json:"value,omitempty"`
	IsCoinbase    bool    `db:"is_coinbase" json:"is_coinbase"`
	CoinbaseData  *string `db:"coinbase_data" json:"coinbase_data,omitempty"`
}

// OutputView is a stored transaction output with its spent marker.
type OutputView struct {
	TxHash     string     `db:"tx_hash" json:"tx_hash"`
	Index      uint32     `db:"vout_index" json:"index"`
	Address    *string    `db:"address" json:"address,omitempty"`
	Value      string     `db:"value" json:"value"`
	ScriptType *string    `db:"script_type" json:"script_type,omitempty"`
	IsSpent    bool       `db:"is_spent" json:"is_spent"`
	SpentByTx  *string    `db:"spent_by_tx" json:"spent_by_tx,omitempty"`
	SpentAt    *time.Time `db:"spent_at" json:"spent_at,omitempty"`
}

// AddressView is a stored address. Balance is the unspent output sum for UTXO-model networks.
type AddressView struct {
	Address     string          `db:"address" json:"address"`
	TxCount     uint64          `db:"tx_count" json:"tx_count"`
	Balance     decimal.Decimal `db:"balance" json:"balance"`
	FirstSeenAt time.Time       `db:"first_seen_at" json:"first_seen_at"`
	LastSeenAt  time.Time       `db:"last_seen_at" json:"last_seen_at"`
}

// NetworkStats aggregates what has been indexed for a network.
type NetworkStats struct {
	Network           string     `db:"name" json:"network"`
	Symbol            string     `db:"symbol" json:"symbol"`
	Model             ChainModel `db:"chain_type" json:"chain_type"`
	CurrentHeight     uint64     `db:"current_height" json:"current_height"`
	IsSyncing         bool       `db:"is_syncing" json:"is_syncing"`
	LastIndexedAt     *time.Time `db:"last_indexed_at" json:"last_indexed_at,omitempty"`
	ErrorMessage      *string    `db:"error_message" json:"error_message,omitempty"`
	TotalBlocks       uint64     `db:"total_blocks" json:"total_blocks"`
	TotalTransactions uint64     `db:"total_transactions" json:"total_transactions"`
	TotalAddresses    uint64     `db:"total_addresses" json:"total_addresses"`
}

// Page is one window of an ordered result set.
type Page[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
}

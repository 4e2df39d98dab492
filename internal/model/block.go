package model

import (
	"encoding/json"
	"time"
)

// BlockStatus describes the finality of a stored block.
type BlockStatus string

// BlockConfirmed is the only status the indexer writes, since blocks are fetched behind the confirmation depth.
var BlockConfirmed BlockStatus = "CONFIRMED"

// Block is one block of a network, unique by (network, hash).
type Block struct {
	NetworkID  int64
	Height     uint64
	Hash       string
	ParentHash string
	Timestamp  time.Time
	// Miner is set for account-model blocks only.
	Miner      *string
	Difficulty *string
	GasUsed    *string
	GasLimit   *string
	// SizeBytes and Weight are set for UTXO-model blocks only.
	SizeBytes *uint64
	Weight    *uint64
	TxCount   uint32
	Status    BlockStatus
	Data      json.RawMessage
}

package ethereum

import "math/big"

// Block is an account-model block with senders derived and receipts attached.
type Block struct {
	Number       uint64
	BlockHash    string
	Parent       string
	Time         uint64
	Miner        string
	Difficulty   *big.Int
	GasUsed      uint64
	GasLimit     uint64
	Size         uint64
	BaseFee      *big.Int
	Transactions []Transaction
}

// Height implements chain.RawBlock.
func (b *Block) Height() uint64 { return b.Number }

// Hash implements chain.RawBlock.
func (b *Block) Hash() string { return b.BlockHash }

// ParentHash implements chain.RawBlock.
func (b *Block) ParentHash() string { return b.Parent }

// Transaction is a transaction of Block. Receipt is nil when it could not be fetched,
// and To is nil for contract creation.
type Transaction struct {
	Hash     string
	Index    uint32
	From     string
	To       *string
	Value    *big.Int
	GasPrice *big.Int
	Gas      uint64
	Nonce    uint64
	Input    []byte
	Type     uint8
	Receipt  *Receipt
}

// Receipt holds the execution outcome fields of a transaction receipt.
// Pre-Byzantium receipts carry a post-state root instead of a status; HasStatus is false for them.
type Receipt struct {
	HasStatus         bool
	Status            uint64
	GasUsed           uint64
	EffectiveGasPrice *big.Int
}

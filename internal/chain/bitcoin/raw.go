package bitcoin

// Block is a UTXO-model block in Esplora layout. Blocks fetched over bitcoind RPC are
// mapped into the same shape.
type Block struct {
	ID                string  `json:"id"`
	BlockHeight       uint64  `json:"height"`
	PreviousBlockHash string  `json:"previousblockhash"`
	Timestamp         int64   `json:"timestamp"`
	TxCount           uint32  `json:"tx_count"`
	Size              uint64  `json:"size"`
	Weight            uint64  `json:"weight"`
	Version           int64   `json:"version"`
	MerkleRoot        string  `json:"merkle_root"`
	Nonce             uint32  `json:"nonce"`
	Bits              uint32  `json:"bits"`
	Difficulty        float64 `json:"difficulty"`

	Txs []Tx `json:"-"`
}

// Height implements chain.RawBlock.
func (b *Block) Height() uint64 { return b.BlockHeight }

// Hash implements chain.RawBlock.
func (b *Block) Hash() string { return b.ID }

// ParentHash implements chain.RawBlock.
func (b *Block) ParentHash() string { return b.PreviousBlockHash }

// Tx is a transaction with inputs and outputs. Fee is nil when the source does not report it.
type Tx struct {
	TxID     string  `json:"txid"`
	Version  int64   `json:"version"`
	Locktime uint32  `json:"locktime"`
	Size     uint64  `json:"size"`
	Weight   uint64  `json:"weight"`
	Fee      *uint64 `json:"fee"`
	Vin      []Vin   `json:"vin"`
	Vout     []Vout  `json:"vout"`
}

// Vin is a transaction input. For coinbase inputs ScriptSig carries the coinbase data.
type Vin struct {
	TxID         string   `json:"txid"`
	Vout         uint32   `json:"vout"`
	Prevout      *Vout    `json:"prevout"`
	ScriptSig    string   `json:"scriptsig"`
	ScriptSigAsm string   `json:"scriptsig_asm"`
	Witness      []string `json:"witness"`
	IsCoinbase   bool     `json:"is_coinbase"`
	Sequence     uint32   `json:"sequence"`
}

// Vout is a transaction output with its value in satoshis.
type Vout struct {
	ScriptPubKey        string `json:"scriptpubkey"`
	ScriptPubKeyAsm     string `json:"scriptpubkey_asm"`
	ScriptPubKeyType    string `json:"scriptpubkey_type"`
	ScriptPubKeyAddress string `json:"scriptpubkey_address"`
	Value               uint64 `json:"value"`
}

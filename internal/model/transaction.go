package model

import "encoding/json"

// TxStatus is the execution status of a transaction.
type TxStatus string

var (
	TxSuccess TxStatus = "SUCCESS"
	TxFailed  TxStatus = "FAILED"
	// TxPending marks an account-model transaction whose receipt could not be obtained.
	TxPending TxStatus = "PENDING"
)

// Transaction is one transaction of a network, unique by (network, hash).
// Value, Fee and the gas fields are decimal strings.
type Transaction struct {
	Hash  string
	Index uint32
	// From and To are set for account-model transactions; To is nil for contract creation.
	From       *string
	To         *string
	Value      string
	Fee        *string
	GasPrice   *string
	GasUsed    *string
	GasLimit   *string
	Nonce      *uint64
	InputData  *string
	IsCoinbase bool
	Status     TxStatus
	Data       json.RawMessage

	// Inputs and Outputs are populated for UTXO-model transactions only.
	Inputs  []TransactionInput
	Outputs []TransactionOutput
}

// TransactionInput references a previous output, unless it is a coinbase input.
type TransactionInput struct {
	Index         uint32
	PrevTxHash    *string
	PrevVoutIndex *uint32
	ScriptSig     *string
	Sequence      uint32
	Witness       []string
	IsCoinbase    bool
	CoinbaseData  *string
	// PrevoutAddress and PrevoutValue are denormalised from the spent output when the source provides them.
	PrevoutAddress *string
	PrevoutValue   *string
}

// Spends reports whether the input consumes a previous output.
func (i TransactionInput) Spends() bool {
	return !i.IsCoinbase && i.PrevTxHash != nil && i.PrevVoutIndex != nil
}

// TransactionOutput is a spendable output. Its spent marker is only written by a later input.
type TransactionOutput struct {
	Index      uint32
	Address    ScriptAddress
	Value      string
	ScriptHex  string
	ScriptType string
}

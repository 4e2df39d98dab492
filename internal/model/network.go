// Package model defines the canonical entities shared by account-model and UTXO-model networks.
package model

// ChainModel tags how a network tracks value.
type ChainModel string

var (
	// AccountModel marks Ethereum-style networks with balances attached to addresses.
	AccountModel ChainModel = "account"
	// UTXOModel marks Bitcoin-style networks that track value as unspent outputs.
	UTXOModel ChainModel = "utxo"
)

// Network identifies an indexed chain. It is provisioned once and never mutated by the indexer.
type Network struct {
	ID     int64      `db:"id" json:"id"`
	Name   string     `db:"name" json:"name"`
	Symbol string     `db:"symbol" json:"symbol"`
	Model  ChainModel `db:"chain_type" json:"chain_type"`
}

// Networks indexed by chainwalker.
var (
	Ethereum = Network{ID: 1, Name: "ethereum", Symbol: "ETH", Model: AccountModel}
	Bitcoin  = Network{ID: 2, Name: "bitcoin", Symbol: "BTC", Model: UTXOModel}
)

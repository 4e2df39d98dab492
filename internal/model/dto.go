package model

// NormalizedBlock groups a block with its ordered transactions and the address sightings
// derived from them, ready to be applied atomically.
type NormalizedBlock struct {
	Block        Block
	Transactions []Transaction
	Sightings    []AddressSighting
}

// Package bitcoin implements the UTXO-model block sources and normalizer.
package bitcoin

import (
	"fmt"
	"strconv"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/goodnatureofminers/chainwalker/pkg/safe"
)

// BtcToSatoshis converts BTC amount to satoshis with overflow checks.
func BtcToSatoshis(value float64) (uint64, error) {
	amt, err := btcutil.NewAmount(value)
	if err != nil {
		return 0, err
	}
	if amt < 0 {
		return 0, fmt.Errorf("negative amount: %d", amt)
	}
	return safe.Uint64(int64(amt))
}

// ParseBits parses a compact target hex string into a 32-bit value.
func ParseBits(value string) (uint32, error) {
	parsed, err := strconv.ParseUint(value, 16, 32)
	if err != nil {
		return 0, err
	}
	return uint32(parsed), nil
}

// BlockFromVerbose maps a bitcoind verbose block into the Esplora-shaped Block.
// Fees and prevouts are not part of the verbose output and stay empty.
func BlockFromVerbose(src *btcjson.GetBlockVerboseTxResult) (*Block, error) {
	bits, err := ParseBits(src.Bits)
	if err != nil {
		return nil, fmt.Errorf("block %d bits parse: %w", src.Height, err)
	}
	height, err := safe.Uint64(src.Height)
	if err != nil {
		return nil, fmt.Errorf("block height %d overflow: %w", src.Height, err)
	}
	size, err := safe.Uint64(src.Size)
	if err != nil {
		return nil, fmt.Errorf("block %d size overflow: %w", src.Height, err)
	}
	weight, err := safe.Uint64(src.Weight)
	if err != nil {
		return nil, fmt.Errorf("block %d weight overflow: %w", src.Height, err)
	}
	txCount, err := safe.Uint32(len(src.Tx))
	if err != nil {
		return nil, fmt.Errorf("block %d tx count overflow: %w", src.Height, err)
	}

	txs := make([]Tx, 0, len(src.Tx))
	for _, raw := range src.Tx {
		tx, err := txFromRaw(raw)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}

	return &Block{
		ID:                src.Hash,
		BlockHeight:       height,
		PreviousBlockHash: src.PreviousHash,
		Timestamp:         src.Time,
		TxCount:           txCount,
		Size:              size,
		Weight:            weight,
		Version:           int64(src.Version),
		MerkleRoot:        src.MerkleRoot,
		Nonce:             src.Nonce,
		Bits:              bits,
		Difficulty:        src.Difficulty,
		Txs:               txs,
	}, nil
}

func txFromRaw(raw btcjson.TxRawResult) (Tx, error) {
	size, err := safe.Uint64(raw.Size)
	if err != nil {
		return Tx{}, fmt.Errorf("tx %s size overflow: %w", raw.Txid, err)
	}
	weight, err := safe.Uint64(raw.Weight)
	if err != nil {
		return Tx{}, fmt.Errorf("tx %s weight overflow: %w", raw.Txid, err)
	}

	vin := make([]Vin, 0, len(raw.Vin))
	for _, in := range raw.Vin {
		if in.IsCoinBase() {
			vin = append(vin, Vin{
				ScriptSig:  in.Coinbase,
				Witness:    in.Witness,
				IsCoinbase: true,
				Sequence:   in.Sequence,
			})
			continue
		}
		converted := Vin{
			TxID:     in.Txid,
			Vout:     in.Vout,
			Witness:  in.Witness,
			Sequence: in.Sequence,
		}
		if in.ScriptSig != nil {
			converted.ScriptSig = in.ScriptSig.Hex
			converted.ScriptSigAsm = in.ScriptSig.Asm
		}
		vin = append(vin, converted)
	}

	vout := make([]Vout, 0, len(raw.Vout))
	for _, out := range raw.Vout {
		value, err := BtcToSatoshis(out.Value)
		if err != nil {
			return Tx{}, fmt.Errorf("tx %s vout %d value: %w", raw.Txid, out.N, err)
		}
		address := out.ScriptPubKey.Address
		if address == "" && len(out.ScriptPubKey.Addresses) == 1 {
			address = out.ScriptPubKey.Addresses[0]
		}
		vout = append(vout, Vout{
			ScriptPubKey:        out.ScriptPubKey.Hex,
			ScriptPubKeyAsm:     out.ScriptPubKey.Asm,
			ScriptPubKeyType:    out.ScriptPubKey.Type,
			ScriptPubKeyAddress: address,
			Value:               value,
		})
	}

	return Tx{
		TxID:     raw.Txid,
		Version:  int64(raw.Version),
		Locktime: raw.LockTime,
		Size:     size,
		Weight:   weight,
		Vin:      vin,
		Vout:     vout,
	}, nil
}

package bitcoin

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/goodnatureofminers/chainwalker/internal/chain"
	"github.com/goodnatureofminers/chainwalker/internal/model"
	"github.com/goodnatureofminers/chainwalker/pkg/safe"
)

// Normalizer maps UTXO-model blocks into the canonical schema.
type Normalizer struct {
	networkID int64
	decoder   *ScriptDecoder
}

// NewNormalizer creates a Normalizer for the stored network id.
func NewNormalizer(networkID int64, decoder *ScriptDecoder) *Normalizer {
	return &Normalizer{networkID: networkID, decoder: decoder}
}

type blockData struct {
	Version    int64  `json:"version"`
	MerkleRoot string `json:"merkle_root"`
	Nonce      uint32 `json:"nonce"`
	Bits       uint32 `json:"bits"`
}

type txData struct {
	Version  int64  `json:"version"`
	Locktime uint32 `json:"locktime"`
	Size     uint64 `json:"size"`
	Weight   uint64 `json:"weight"`
}

// Normalize implements chain.Normalizer.
func (n *Normalizer) Normalize(raw chain.RawBlock) (*model.NormalizedBlock, error) {
	src, ok := raw.(*Block)
	if !ok {
		return nil, fmt.Errorf("%w: %T", chain.ErrUnexpectedBlock, raw)
	}

	timestamp := time.Unix(src.Timestamp, 0).UTC()
	txCount, err := safe.Uint32(len(src.Txs))
	if err != nil {
		return nil, fmt.Errorf("block %d tx count overflow: %w", src.BlockHeight, err)
	}
	data, err := json.Marshal(blockData{
		Version:    src.Version,
		MerkleRoot: src.MerkleRoot,
		Nonce:      src.Nonce,
		Bits:       src.Bits,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal block %d data: %w", src.BlockHeight, err)
	}

	size, weight := src.Size, src.Weight
	difficulty := strconv.FormatFloat(src.Difficulty, 'f', -1, 64)
	out := &model.NormalizedBlock{
		Block: model.Block{
			NetworkID:  n.networkID,
			Height:     src.BlockHeight,
			Hash:       src.ID,
			ParentHash: src.PreviousBlockHash,
			Timestamp:  timestamp,
			Difficulty: &difficulty,
			SizeBytes:  &size,
			Weight:     &weight,
			TxCount:    txCount,
			Status:     model.BlockConfirmed,
			Data:       data,
		},
		Transactions: make([]model.Transaction, 0, len(src.Txs)),
	}

	seen := make(map[string]struct{})
	for i, tx := range src.Txs {
		normalized, err := n.normalizeTx(i, tx)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", src.BlockHeight, err)
		}
		out.Transactions = append(out.Transactions, normalized)

		for _, output := range normalized.Outputs {
			address, ok := output.Address.Address()
			if !ok {
				continue
			}
			key := address + "/" + tx.TxID
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out.Sightings = append(out.Sightings, model.AddressSighting{
				Address: address,
				TxHash:  tx.TxID,
				SeenAt:  timestamp,
			})
		}
	}
	return out, nil
}

func (n *Normalizer) normalizeTx(position int, tx Tx) (model.Transaction, error) {
	index, err := safe.Uint32(position)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("tx %s index overflow: %w", tx.TxID, err)
	}
	data, err := json.Marshal(txData{
		Version:  tx.Version,
		Locktime: tx.Locktime,
		Size:     tx.Size,
		Weight:   tx.Weight,
	})
	if err != nil {
		return model.Transaction{}, fmt.Errorf("marshal tx %s data: %w", tx.TxID, err)
	}

	inputs := make([]model.TransactionInput, 0, len(tx.Vin))
	for i, vin := range tx.Vin {
		input, err := normalizeInput(i, vin)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("tx %s: %w", tx.TxID, err)
		}
		inputs = append(inputs, input)
	}

	total := new(big.Int)
	outputs := make([]model.TransactionOutput, 0, len(tx.Vout))
	for i, vout := range tx.Vout {
		outIndex, err := safe.Uint32(i)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("tx %s vout index overflow: %w", tx.TxID, err)
		}
		address, scriptType := n.decoder.Resolve(vout)
		total.Add(total, new(big.Int).SetUint64(vout.Value))
		outputs = append(outputs, model.TransactionOutput{
			Index:      outIndex,
			Address:    address,
			Value:      strconv.FormatUint(vout.Value, 10),
			ScriptHex:  vout.ScriptPubKey,
			ScriptType: scriptType,
		})
	}

	var fee *string
	if tx.Fee != nil {
		value := strconv.FormatUint(*tx.Fee, 10)
		fee = &value
	}

	return model.Transaction{
		Hash:       tx.TxID,
		Index:      index,
		Value:      total.String(),
		Fee:        fee,
		IsCoinbase: len(tx.Vin) > 0 && tx.Vin[0].IsCoinbase,
		Status:     model.TxSuccess,
		Data:       data,
		Inputs:     inputs,
		Outputs:    outputs,
	}, nil
}

func normalizeInput(position int, vin Vin) (model.TransactionInput, error) {
	index, err := safe.Uint32(position)
	if err != nil {
		return model.TransactionInput{}, fmt.Errorf("vin index overflow: %w", err)
	}
	input := model.TransactionInput{
		Index:      index,
		Sequence:   vin.Sequence,
		Witness:    vin.Witness,
		IsCoinbase: vin.IsCoinbase,
	}
	if vin.IsCoinbase {
		input.CoinbaseData = optional(vin.ScriptSig)
		return input, nil
	}

	prevTx, prevIndex := vin.TxID, vin.Vout
	input.PrevTxHash = &prevTx
	input.PrevVoutIndex = &prevIndex
	input.ScriptSig = optional(vin.ScriptSig)
	if vin.Prevout != nil {
		input.PrevoutAddress = optional(vin.Prevout.ScriptPubKeyAddress)
		value := strconv.FormatUint(vin.Prevout.Value, 10)
		input.PrevoutValue = &value
	}
	return input, nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

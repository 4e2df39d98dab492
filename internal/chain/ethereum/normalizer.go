package ethereum

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/goodnatureofminers/chainwalker/internal/chain"
	"github.com/goodnatureofminers/chainwalker/internal/model"
	"github.com/goodnatureofminers/chainwalker/pkg/safe"
)

// Normalizer maps account-model blocks into the canonical schema.
type Normalizer struct {
	networkID int64
}

// NewNormalizer creates a Normalizer for the stored network id.
func NewNormalizer(networkID int64) *Normalizer {
	return &Normalizer{networkID: networkID}
}

type blockData struct {
	Size          uint64  `json:"size"`
	BaseFeePerGas *string `json:"base_fee_per_gas,omitempty"`
}

type txData struct {
	Type uint8 `json:"type"`
}

// Normalize implements chain.Normalizer.
func (n *Normalizer) Normalize(raw chain.RawBlock) (*model.NormalizedBlock, error) {
	src, ok := raw.(*Block)
	if !ok {
		return nil, fmt.Errorf("%w: %T", chain.ErrUnexpectedBlock, raw)
	}

	seconds, err := safe.Int64(src.Time)
	if err != nil {
		return nil, fmt.Errorf("block %d timestamp: %w", src.Number, err)
	}
	timestamp := time.Unix(seconds, 0).UTC()
	txCount, err := safe.Uint32(len(src.Transactions))
	if err != nil {
		return nil, fmt.Errorf("block %d tx count overflow: %w", src.Number, err)
	}

	var baseFee *string
	if src.BaseFee != nil {
		value := src.BaseFee.String()
		baseFee = &value
	}
	data, err := json.Marshal(blockData{Size: src.Size, BaseFeePerGas: baseFee})
	if err != nil {
		return nil, fmt.Errorf("marshal block %d data: %w", src.Number, err)
	}

	miner := src.Miner
	difficulty := decimal(src.Difficulty)
	gasUsed := strconv.FormatUint(src.GasUsed, 10)
	gasLimit := strconv.FormatUint(src.GasLimit, 10)

	out := &model.NormalizedBlock{
		Block: model.Block{
			NetworkID:  n.networkID,
			Height:     src.Number,
			Hash:       src.BlockHash,
			ParentHash: src.Parent,
			Timestamp:  timestamp,
			Miner:      &miner,
			Difficulty: &difficulty,
			GasUsed:    &gasUsed,
			GasLimit:   &gasLimit,
			TxCount:    txCount,
			Status:     model.BlockConfirmed,
			Data:       data,
		},
		Transactions: make([]model.Transaction, 0, len(src.Transactions)),
	}

	for _, tx := range src.Transactions {
		normalized, err := normalizeTx(tx)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", src.Number, err)
		}
		out.Transactions = append(out.Transactions, normalized)

		out.Sightings = append(out.Sightings, model.AddressSighting{Address: tx.From, TxHash: tx.Hash, SeenAt: timestamp})
		if tx.To != nil && *tx.To != tx.From {
			out.Sightings = append(out.Sightings, model.AddressSighting{Address: *tx.To, TxHash: tx.Hash, SeenAt: timestamp})
		}
	}
	return out, nil
}

func normalizeTx(tx Transaction) (model.Transaction, error) {
	data, err := json.Marshal(txData{Type: tx.Type})
	if err != nil {
		return model.Transaction{}, fmt.Errorf("marshal tx %s data: %w", tx.Hash, err)
	}

	from := tx.From
	gasPrice := decimal(tx.GasPrice)
	gasLimit := strconv.FormatUint(tx.Gas, 10)
	nonce := tx.Nonce
	input := "0x" + hex.EncodeToString(tx.Input)

	out := model.Transaction{
		Hash:      tx.Hash,
		Index:     tx.Index,
		From:      &from,
		To:        tx.To,
		Value:     decimal(tx.Value),
		GasPrice:  &gasPrice,
		GasLimit:  &gasLimit,
		Nonce:     &nonce,
		InputData: &input,
		Status:    model.TxPending,
		Data:      data,
	}

	if r := tx.Receipt; r != nil {
		if r.HasStatus {
			out.Status = model.TxFailed
			if r.Status == 1 {
				out.Status = model.TxSuccess
			}
		}
		gasUsed := strconv.FormatUint(r.GasUsed, 10)
		out.GasUsed = &gasUsed

		price := r.EffectiveGasPrice
		if price == nil {
			price = tx.GasPrice
		}
		if price != nil {
			fee := new(big.Int).Mul(new(big.Int).SetUint64(r.GasUsed), price).String()
			out.Fee = &fee
		}
	}
	return out, nil
}

func decimal(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

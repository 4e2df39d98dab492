//go:build integration

package postgres

import (
	"errors"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/goodnatureofminers/chainwalker/internal/model"
)

func (s *RepositorySuite) fundingBlock() *model.NormalizedBlock {
	ts := time.Date(2024, 4, 20, 0, 9, 27, 0, time.UTC)
	return &model.NormalizedBlock{
		Block: model.Block{
			NetworkID:  bitcoinNetwork.ID,
			Height:     1,
			Hash:       "hash-1",
			ParentHash: "hash-0",
			Timestamp:  ts,
			TxCount:    1,
			Status:     model.BlockConfirmed,
			Data:       []byte(`{"version":536870912}`),
		},
		Transactions: []model.Transaction{{
			Hash:       "funding",
			Value:      "5000",
			IsCoinbase: true,
			Status:     model.TxSuccess,
			Inputs:     []model.TransactionInput{{Index: 0, IsCoinbase: true}},
			Outputs: []model.TransactionOutput{
				{Index: 0, Address: model.ResolvedAddress("alice"), Value: "3000", ScriptType: "witness_v0_keyhash"},
				{Index: 1, Address: model.ResolvedAddress("bob"), Value: "2000", ScriptType: "witness_v0_keyhash"},
				{Index: 2, Address: model.UnresolvedScript("nulldata"), Value: "0", ScriptType: "nulldata"},
			},
		}},
		Sightings: []model.AddressSighting{
			{Address: "alice", TxHash: "funding", SeenAt: ts},
			{Address: "bob", TxHash: "funding", SeenAt: ts},
		},
	}
}

func (s *RepositorySuite) spendingBlock() *model.NormalizedBlock {
	ts := time.Date(2024, 4, 20, 0, 19, 27, 0, time.UTC)
	prev, vout := "funding", uint32(0)
	owner, value := "alice", "3000"
	return &model.NormalizedBlock{
		Block: model.Block{
			NetworkID:  bitcoinNetwork.ID,
			Height:     2,
			Hash:       "hash-2",
			ParentHash: "hash-1",
			Timestamp:  ts,
			TxCount:    1,
			Status:     model.BlockConfirmed,
		},
		Transactions: []model.Transaction{{
			Hash:   "spend",
			Value:  "2900",
			Status: model.TxSuccess,
			Inputs: []model.TransactionInput{{
				Index:          0,
				PrevTxHash:     &prev,
				PrevVoutIndex:  &vout,
				PrevoutAddress: &owner,
				PrevoutValue:   &value,
				Witness:        []string{"3044", "02ab"},
			}},
			Outputs: []model.TransactionOutput{
				{Index: 0, Address: model.ResolvedAddress("bob"), Value: "2900", ScriptType: "witness_v0_keyhash"},
			},
		}},
		Sightings: []model.AddressSighting{
			{Address: "bob", TxHash: "spend", SeenAt: ts},
		},
	}
}

func (s *RepositorySuite) TestApplyBlockIsIdempotent() {
	s.metrics.EXPECT().Observe("apply_block", gomock.Nil(), gomock.Any()).Times(2)

	block := s.fundingBlock()
	s.Require().NoError(s.repo.ApplyBlock(s.testCtx, block))
	s.Require().NoError(s.repo.ApplyBlock(s.testCtx, block))

	s.Equal(int64(1), s.countRows(`SELECT COUNT(*) FROM blocks`))
	s.Equal(int64(1), s.countRows(`SELECT COUNT(*) FROM transactions`))
	s.Equal(int64(1), s.countRows(`SELECT COUNT(*) FROM transaction_inputs`))
	s.Equal(int64(3), s.countRows(`SELECT COUNT(*) FROM transaction_outputs`))
	s.Equal(int64(1), s.countRows(`SELECT tx_count FROM addresses WHERE address = $1`, "alice"))
	s.Equal(int64(0), s.countRows(`SELECT COUNT(*) FROM transaction_outputs WHERE address IS NULL AND script_type <> 'nulldata'`))
}

func (s *RepositorySuite) TestApplyBlockKeepsKnownStatus() {
	s.metrics.EXPECT().Observe("apply_block", gomock.Nil(), gomock.Any()).Times(2)

	gasUsed, fee := "21000", "210000"
	block := s.fundingBlock()
	block.Transactions[0].Status = model.TxSuccess
	block.Transactions[0].GasUsed = &gasUsed
	block.Transactions[0].Fee = &fee
	s.Require().NoError(s.repo.ApplyBlock(s.testCtx, block))

	again := s.fundingBlock()
	again.Transactions[0].Status = model.TxPending
	again.Transactions[0].GasUsed = nil
	again.Transactions[0].Fee = nil
	s.Require().NoError(s.repo.ApplyBlock(s.testCtx, again))

	var status string
	s.Require().NoError(s.repo.conn.GetContext(s.testCtx, &status, `SELECT status FROM transactions WHERE tx_hash = $1`, "funding"))
	s.Equal(string(model.TxSuccess), status)
	s.Equal(int64(21000), s.countRows(`SELECT gas_used FROM transactions WHERE tx_hash = $1`, "funding"))
	s.Equal(int64(210000), s.countRows(`SELECT fee FROM transactions WHERE tx_hash = $1`, "funding"))
}

func (s *RepositorySuite) TestApplyBlockAdvancesCheckpoint() {
	s.metrics.EXPECT().Observe("apply_block", gomock.Nil(), gomock.Any())
	s.metrics.EXPECT().Observe("save_state", gomock.Nil(), gomock.Any())
	s.metrics.EXPECT().Observe("load_state", gomock.Nil(), gomock.Any())

	message := "failed at block 1: timeout"
	s.Require().NoError(s.repo.SaveState(s.testCtx, bitcoinNetwork.ID, model.IndexerStateUpdate{ErrorMessage: &message}))
	s.Require().NoError(s.repo.ApplyBlock(s.testCtx, s.fundingBlock()))

	state, err := s.repo.LoadState(s.testCtx, bitcoinNetwork.ID)
	s.Require().NoError(err)
	s.Require().NotNil(state)
	s.Equal(uint64(1), state.LastIndexedHeight)
	s.Require().NotNil(state.LastIndexedHash)
	s.Equal("hash-1", *state.LastIndexedHash)
	s.True(state.IsSyncing)
	s.Nil(state.ErrorMessage)
	s.NotNil(state.LastIndexedAt)
}

func (s *RepositorySuite) TestApplyBlockMarksSpentOutputs() {
	s.metrics.EXPECT().Observe("apply_block", gomock.Nil(), gomock.Any()).Times(3)
	s.metrics.EXPECT().Observe("address", gomock.Nil(), gomock.Any()).Times(2)
	s.metrics.EXPECT().Observe("utxos", gomock.Nil(), gomock.Any())

	s.Require().NoError(s.repo.ApplyBlock(s.testCtx, s.fundingBlock()))
	s.Require().NoError(s.repo.ApplyBlock(s.testCtx, s.spendingBlock()))
	s.Require().NoError(s.repo.ApplyBlock(s.testCtx, s.spendingBlock()))

	var spentBy string
	s.Require().NoError(s.repo.conn.GetContext(s.testCtx, &spentBy, `
SELECT o.spent_by_tx
FROM transaction_outputs o
JOIN transactions t ON t.id = o.transaction_id
WHERE t.tx_hash = 'funding' AND o.vout_index = 0 AND o.is_spent`))
	s.Equal("spend", spentBy)

	reader := s.repo.Reader()
	alice, err := reader.Address(s.testCtx, bitcoinNetwork.ID, "alice")
	s.Require().NoError(err)
	s.True(alice.Balance.IsZero())

	bob, err := reader.Address(s.testCtx, bitcoinNetwork.ID, "bob")
	s.Require().NoError(err)
	s.Equal("4900", bob.Balance.String())
	s.Equal(uint64(2), bob.TxCount)

	utxos, err := reader.UTXOs(s.testCtx, bitcoinNetwork.ID, "bob", 0, 10)
	s.Require().NoError(err)
	s.Equal(int64(2), utxos.Total)
	s.Equal("spend", utxos.Items[0].TxHash)
}

func (s *RepositorySuite) TestApplyBlockRollsBackOnFailure() {
	s.metrics.EXPECT().Observe("apply_block", gomock.Not(gomock.Nil()), gomock.Any())
	s.metrics.EXPECT().Observe("load_state", gomock.Nil(), gomock.Any())

	block := s.fundingBlock()
	block.Block.NetworkID = 99
	block.Transactions[0].Outputs = nil

	err := s.repo.ApplyBlock(s.testCtx, block)
	s.Require().Error(err)
	s.True(errors.Is(err, ErrPersistence))

	s.Equal(int64(0), s.countRows(`SELECT COUNT(*) FROM blocks`))
	state, err := s.repo.LoadState(s.testCtx, bitcoinNetwork.ID)
	s.Require().NoError(err)
	s.Equal(uint64(0), state.LastIndexedHeight)
	s.Nil(state.LastIndexedHash)
}

func (s *RepositorySuite) TestApplyBlockRollsBackPartialBlock() {
	s.metrics.EXPECT().Observe("apply_block", gomock.Not(gomock.Nil()), gomock.Any())

	block := s.fundingBlock()
	block.Transactions = append(block.Transactions, model.Transaction{
		Hash:   "broken",
		Index:  1,
		Value:  "not-a-number",
		Status: model.TxSuccess,
	})

	s.Require().Error(s.repo.ApplyBlock(s.testCtx, block))
	s.Equal(int64(0), s.countRows(`SELECT COUNT(*) FROM transactions`))
	s.Equal(int64(0), s.countRows(`SELECT COUNT(*) FROM addresses`))
}

func (s *RepositorySuite) TestSaveStateCoalesces() {
	s.metrics.EXPECT().Observe("save_state", gomock.Nil(), gomock.Any()).Times(2)
	s.metrics.EXPECT().Observe("load_state", gomock.Nil(), gomock.Any())

	height, hash, syncing := uint64(54), "hash-54", true
	message := "failed at block 55: boom"
	s.Require().NoError(s.repo.SaveState(s.testCtx, bitcoinNetwork.ID, model.IndexerStateUpdate{
		LastIndexedHeight: &height,
		LastIndexedHash:   &hash,
		IsSyncing:         &syncing,
		ErrorMessage:      &message,
	}))

	notSyncing := false
	s.Require().NoError(s.repo.SaveState(s.testCtx, bitcoinNetwork.ID, model.IndexerStateUpdate{IsSyncing: &notSyncing}))

	state, err := s.repo.LoadState(s.testCtx, bitcoinNetwork.ID)
	s.Require().NoError(err)
	s.Equal(uint64(54), state.LastIndexedHeight)
	s.Equal("hash-54", *state.LastIndexedHash)
	s.False(state.IsSyncing)
	s.Nil(state.ErrorMessage)
}

func (s *RepositorySuite) TestEnsureNetworkKeepsCheckpoint() {
	s.metrics.EXPECT().Observe("apply_block", gomock.Nil(), gomock.Any())
	s.metrics.EXPECT().Observe("ensure_network", gomock.Nil(), gomock.Any())
	s.metrics.EXPECT().Observe("load_state", gomock.Nil(), gomock.Any())

	s.Require().NoError(s.repo.ApplyBlock(s.testCtx, s.fundingBlock()))
	s.Require().NoError(s.repo.EnsureNetwork(s.testCtx, NetworkConfig{Network: bitcoinNetwork, StartHeight: 500}))

	state, err := s.repo.LoadState(s.testCtx, bitcoinNetwork.ID)
	s.Require().NoError(err)
	s.Equal(uint64(1), state.LastIndexedHeight)
}

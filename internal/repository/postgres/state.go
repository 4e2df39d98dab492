package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/chainwalker/internal/model"
)

const (
	ensureNetworkQuery = `
INSERT INTO networks (id, name, symbol, chain_type, rpc_url)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET
	rpc_url = COALESCE(EXCLUDED.rpc_url, networks.rpc_url),
	is_active = TRUE,
	updated_at = NOW()`

	ensureStateQuery = `
INSERT INTO indexer_state (network_id, last_indexed_height)
VALUES ($1, $2)
ON CONFLICT (network_id) DO NOTHING`

	loadStateQuery = `
SELECT
	network_id,
	last_indexed_height,
	last_indexed_hash,
	last_indexed_at,
	is_syncing,
	error_message,
	updated_at
FROM indexer_state
WHERE network_id = $1`

	saveStateQuery = `
INSERT INTO indexer_state (
	network_id,
	last_indexed_height,
	last_indexed_hash,
	last_indexed_at,
	is_syncing,
	error_message,
	updated_at
) VALUES ($1, COALESCE($2::BIGINT, 0), $3::TEXT, $4::TIMESTAMPTZ, COALESCE($5::BOOLEAN, FALSE), $6::TEXT, NOW())
ON CONFLICT (network_id) DO UPDATE SET
	last_indexed_height = COALESCE($2::BIGINT, indexer_state.last_indexed_height),
	last_indexed_hash = COALESCE($3::TEXT, indexer_state.last_indexed_hash),
	last_indexed_at = COALESCE($4::TIMESTAMPTZ, indexer_state.last_indexed_at),
	is_syncing = COALESCE($5::BOOLEAN, indexer_state.is_syncing),
	error_message = $6::TEXT,
	updated_at = NOW()`
)

// NetworkConfig describes a network to provision.
type NetworkConfig struct {
	Network model.Network
	RPCURL  string
	// StartHeight seeds the checkpoint of a network indexed for the first time.
	StartHeight uint64
}

// EnsureNetwork provisions the network row and its checkpoint row. An existing
// checkpoint is never moved.
func (r *Repository) EnsureNetwork(ctx context.Context, cfg NetworkConfig) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("ensure_network", err, start)
	}()

	n := cfg.Network
	if _, err = r.conn.ExecContext(ctx, ensureNetworkQuery, n.ID, n.Name, n.Symbol, string(n.Model), optional(cfg.RPCURL)); err != nil {
		return fmt.Errorf("ensure network %s: %w", n.Name, err)
	}
	if _, err = r.conn.ExecContext(ctx, ensureStateQuery, n.ID, cfg.StartHeight); err != nil {
		return fmt.Errorf("ensure indexer state %s: %w", n.Name, err)
	}
	return nil
}

// LoadState returns the checkpoint of a network, or nil when none exists.
func (r *Repository) LoadState(ctx context.Context, networkID int64) (_ *model.IndexerState, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("load_state", err, start)
	}()

	return loadState(ctx, r.conn, networkID)
}

func loadState(ctx context.Context, q Queryer, networkID int64) (*model.IndexerState, error) {
	var state model.IndexerState
	if err := q.GetContext(ctx, &state, loadStateQuery, networkID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load indexer state %d: %w", networkID, err)
	}
	return &state, nil
}

// SaveState applies a partial update to the checkpoint. Nil fields keep their stored
// value; ErrorMessage is always written.
func (r *Repository) SaveState(ctx context.Context, networkID int64, update model.IndexerStateUpdate) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("save_state", err, start)
	}()

	if _, err = r.conn.ExecContext(ctx, saveStateQuery,
		networkID,
		update.LastIndexedHeight,
		update.LastIndexedHash,
		update.LastIndexedAt,
		update.IsSyncing,
		update.ErrorMessage,
	); err != nil {
		return fmt.Errorf("save indexer state %d: %w", networkID, err)
	}
	return nil
}

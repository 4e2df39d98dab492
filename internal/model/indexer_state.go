package model

import "time"

// IndexerState is the durable checkpoint of a network.
type IndexerState struct {
	NetworkID         int64      `db:"network_id" json:"network_id"`
	LastIndexedHeight uint64     `db:"last_indexed_height" json:"last_indexed_height"`
	LastIndexedHash   *string    `db:"last_indexed_hash" json:"last_indexed_hash"`
	LastIndexedAt     *time.Time `db:"last_indexed_at" json:"last_indexed_at"`
	IsSyncing         bool       `db:"is_syncing" json:"is_syncing"`
	ErrorMessage      *string    `db:"error_message" json:"error_message"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// IndexerStateUpdate is a partial update of IndexerState. Nil fields keep their stored
// value, except ErrorMessage which is always written.
type IndexerStateUpdate struct {
	LastIndexedHeight *uint64
	LastIndexedHash   *string
	LastIndexedAt     *time.Time
	IsSyncing         *bool
	ErrorMessage      *string
}

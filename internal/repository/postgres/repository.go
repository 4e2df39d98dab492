// Package postgres persists normalized blocks and indexer checkpoints in PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Repository struct {
	conn    Conn
	metrics Metrics
}

// NewRepository wraps an open connection.
func NewRepository(conn Conn, metrics Metrics) *Repository {
	return &Repository{conn: conn, metrics: metrics}
}

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, dsn string, metrics Metrics) (*Repository, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	return NewRepository(sqlxConn{DB: db}, metrics), nil
}

// Close releases the underlying connection pool.
func (r *Repository) Close() error {
	return r.conn.Close()
}

// Reader returns the read-only view over the same connection.
func (r *Repository) Reader() *Reader {
	return &Reader{conn: r.conn, metrics: r.metrics}
}

type sqlxConn struct {
	*sqlx.DB
}

func (c sqlxConn) Begin(ctx context.Context) (Tx, error) {
	tx, err := c.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

package postgres

import (
	"context"
	"database/sql"
	"time"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}

	// Queryer runs statements against the database or inside a transaction.
	Queryer interface {
		GetContext(ctx context.Context, dest any, query string, args ...any) error
		SelectContext(ctx context.Context, dest any, query string, args ...any) error
		ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	}

	Tx interface {
		Queryer
		Commit() error
		Rollback() error
	}

	Conn interface {
		Queryer
		Begin(ctx context.Context) (Tx, error)
		Close() error
	}
)

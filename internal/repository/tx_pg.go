package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGTxManager struct {
	db          *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxManager opens READ COMMITTED transactions. A positive lockTimeout is
// applied with SET LOCAL so a stuck row lock fails the transaction instead of
// blocking forever.
func NewTxManager(db *pgxpool.Pool, lockTimeout time.Duration) *PGTxManager {
	return &PGTxManager{db: db, lockTimeout: lockTimeout}
}

func (m *PGTxManager) Begin(ctx context.Context) (Tx, error) {
	tx, err := m.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	if m.lockTimeout > 0 {
		timeout := fmt.Sprintf("%dms", m.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, `SELECT set_config('lock_timeout', $1, true)`, timeout); err != nil {
			_ = tx.Rollback(ctx)
			return nil, fmt.Errorf("set lock timeout: %w", err)
		}
	}
	return &pgTx{tx: tx}, nil
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		if errors.Is(err, pgx.ErrTxClosed) {
			return ErrTxClosed
		}
		return err
	}
	return nil
}

func (t *pgTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil {
		if errors.Is(err, pgx.ErrTxClosed) {
			return ErrTxClosed
		}
		return err
	}
	return nil
}

func pgxTx(tx Tx) (pgx.Tx, error) {
	t, ok := tx.(*pgTx)
	if !ok || t == nil {
		return nil, ErrForeignTx
	}
	return t.tx, nil
}

var _ TxManager = (*PGTxManager)(nil)

package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewFlightRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewFlightRepository(pool)
	assert.NotNil(t, repo)
}

type foreignTx struct{}

func (foreignTx) Commit(context.Context) error   { return nil }
func (foreignTx) Rollback(context.Context) error { return nil }

func TestPGFlightRepository_RejectsForeignTx(t *testing.T) {
	repo := NewFlightRepository(&pgxpool.Pool{})
	ctx := context.Background()

	_, err := repo.LockFlightForUpdate(ctx, foreignTx{}, 1)
	assert.ErrorIs(t, err, ErrForeignTx)

	err = repo.DecrementSeats(ctx, foreignTx{}, 1, 1)
	assert.ErrorIs(t, err, ErrForeignTx)
}

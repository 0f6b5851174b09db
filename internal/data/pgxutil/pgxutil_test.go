package pgxutil

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	pgx.Tx

	commitErr   error
	rollbackErr error
	committed   bool
	rolledBack  bool
}

func (f *fakeTx) Commit(context.Context) error {
	f.committed = true
	return f.commitErr
}

func (f *fakeTx) Rollback(context.Context) error {
	f.rolledBack = true
	if f.committed && f.commitErr == nil {
		return pgx.ErrTxClosed
	}
	return f.rollbackErr
}

func TestRunTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		tx := &fakeTx{}
		require.NoError(t, runTx(ctx, tx, func(pgx.Tx) error { return nil }))
		assert.True(t, tx.committed)
	})

	t.Run("returns fn error after rollback", func(t *testing.T) {
		boom := errors.New("boom")
		tx := &fakeTx{}
		err := runTx(ctx, tx, func(pgx.Tx) error { return boom })
		require.ErrorIs(t, err, boom)
		assert.False(t, tx.committed)
		assert.True(t, tx.rolledBack)
	})

	t.Run("joins rollback failure", func(t *testing.T) {
		boom := errors.New("boom")
		connLost := errors.New("conn lost")
		tx := &fakeTx{rollbackErr: connLost}
		err := runTx(ctx, tx, func(pgx.Tx) error { return boom })
		require.ErrorIs(t, err, boom)
		require.ErrorIs(t, err, connLost)
		assert.Contains(t, err.Error(), "rollback: conn lost")
	})

	t.Run("wraps commit failure", func(t *testing.T) {
		tx := &fakeTx{commitErr: errors.New("serialization failure")}
		err := runTx(ctx, tx, func(pgx.Tx) error { return nil })
		require.ErrorContains(t, err, "commit tx: serialization failure")
	})
}

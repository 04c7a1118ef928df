//go:build unit

package uow

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlc "coach-booking/internal/infra/sqlc/generated"
	"coach-booking/internal/pkg/config"
	"coach-booking/internal/pkg/errs"
	"coach-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	pgx.Tx
	execArgs   [][]any
	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
	t.execArgs = append(t.execArgs, args)
	return pgconn.CommandTag{}, nil
}

func (t *fakeTx) Commit(context.Context) error {
	if t.commitErr != nil {
		return t.commitErr
	}
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	t.rolledBack = true
	return nil
}

type fakePool struct {
	Beginner
	txs   []*fakeTx
	opts  []pgx.TxOptions
	begun int
}

func (p *fakePool) BeginTx(_ context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	p.opts = append(p.opts, opts)
	tx := &fakeTx{}
	p.txs = append(p.txs, tx)
	p.begun++
	return tx, nil
}

func newTestUoW(pool Beginner, cfg config.DBConfig) *PostgresUoW {
	u := newPostgresUoW(pool, sqlc.New(), cfg)
	u.retryBase = time.Millisecond
	return u
}

func TestWithin(t *testing.T) {
	t.Run("snapshot isolation with per-transaction durability", func(t *testing.T) {
		pool := &fakePool{}
		u := newTestUoW(pool, config.DBConfig{SynchronousCommit: "remote_apply"})

		var seen shared.Tx
		err := u.Within(context.Background(), func(_ context.Context, tx shared.Tx) error {
			seen = tx
			return nil
		})

		require.NoError(t, err)
		require.Len(t, pool.txs, 1)
		assert.Equal(t, pgx.RepeatableRead, pool.opts[0].IsoLevel)
		assert.Equal(t, [][]any{{"remote_apply"}}, pool.txs[0].execArgs)
		assert.True(t, pool.txs[0].committed)
		assert.NotNil(t, seen.Bookings())
		assert.NotNil(t, seen.Outbox())
		assert.NotNil(t, seen.Users())
		assert.Same(t, seen.Bookings(), seen.Bookings())
	})

	t.Run("empty durability level skips the setting", func(t *testing.T) {
		pool := &fakePool{}
		u := newTestUoW(pool, config.DBConfig{})

		require.NoError(t, u.Within(context.Background(), func(context.Context, shared.Tx) error { return nil }))
		assert.Empty(t, pool.txs[0].execArgs)
	})

	t.Run("callback error rolls back without retry by default", func(t *testing.T) {
		pool := &fakePool{}
		u := newTestUoW(pool, config.DBConfig{SynchronousCommit: "on"})
		conflict := &pgconn.PgError{Code: "40001"}

		err := u.Within(context.Background(), func(context.Context, shared.Tx) error { return conflict })

		assert.ErrorIs(t, err, error(conflict))
		assert.Equal(t, 1, pool.begun)
		assert.True(t, pool.txs[0].rolledBack)
		assert.False(t, pool.txs[0].committed)
		assert.False(t, errs.Is(err, errMaxRetriesExceeded))
	})

	t.Run("configured retries re-run serialization failures", func(t *testing.T) {
		pool := &fakePool{}
		u := newTestUoW(pool, config.DBConfig{TxMaxRetries: 2})
		conflict := &pgconn.PgError{Code: "40001"}

		err := u.Within(context.Background(), func(context.Context, shared.Tx) error { return conflict })

		assert.Equal(t, 3, pool.begun)
		assert.True(t, errs.Is(err, errMaxRetriesExceeded))
	})

	t.Run("non-retryable errors are not retried", func(t *testing.T) {
		pool := &fakePool{}
		u := newTestUoW(pool, config.DBConfig{TxMaxRetries: 2})

		err := u.Within(context.Background(), func(context.Context, shared.Tx) error {
			return &pgconn.PgError{Code: "23505"}
		})

		assert.Error(t, err)
		assert.Equal(t, 1, pool.begun)
	})

	t.Run("commit failure is marked", func(t *testing.T) {
		pool := &commitFailPool{err: errors.New("connection lost")}
		u := newTestUoW(pool, config.DBConfig{})

		err := u.Within(context.Background(), func(context.Context, shared.Tx) error { return nil })

		assert.True(t, errs.Is(err, errTransactionCommit))
	})
}

type commitFailPool struct {
	Beginner
	err error
}

func (p *commitFailPool) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	return &fakeTx{commitErr: p.err}, nil
}

func TestWithinReadOnly(t *testing.T) {
	pool := &fakePool{}
	u := newTestUoW(pool, config.DBConfig{SynchronousCommit: "on"})

	err := u.WithinReadOnly(context.Background(), func(context.Context, sqlc.DBTX) error { return nil })

	require.NoError(t, err)
	assert.Equal(t, pgx.ReadOnly, pool.opts[0].AccessMode)
	assert.Empty(t, pool.txs[0].execArgs)
	assert.True(t, pool.txs[0].committed)
}

func TestCalculateBackoff(t *testing.T) {
	base := 100 * time.Millisecond
	for attempt := range 4 {
		floor := time.Duration(1<<attempt) * base
		got := calculateBackoff(attempt, base)
		assert.GreaterOrEqual(t, got, floor)
		assert.Less(t, got, floor+floor/5+1)
	}
}

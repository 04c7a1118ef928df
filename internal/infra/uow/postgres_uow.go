package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"coach-booking/internal/infra"
	"coach-booking/internal/infra/repository"
	sqlc "coach-booking/internal/infra/sqlc/generated"
	"coach-booking/internal/pkg/config"
	"coach-booking/internal/pkg/errs"
	"coach-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errDurabilitySetup    = errs.New("failed to set commit durability")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

// Beginner is the subset of *pgxpool.Pool the unit of work needs.
type Beginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresUoW struct {
	pool              Beginner
	q                 *sqlc.Queries
	synchronousCommit string
	maxRetries        int
	retryBase         time.Duration
}

func NewPostgresUoW(pool *pgxpool.Pool, q *sqlc.Queries, cfg config.Config) shared.UnitOfWork {
	return newPostgresUoW(pool, q, cfg.DB)
}

func newPostgresUoW(pool Beginner, q *sqlc.Queries, cfg config.DBConfig) *PostgresUoW {
	return &PostgresUoW{
		pool:              pool,
		q:                 q,
		synchronousCommit: cfg.SynchronousCommit,
		maxRetries:        max(cfg.TxMaxRetries, 0),
		retryBase:         100 * time.Millisecond,
	}
}

// RepeatableRead is PostgreSQL's snapshot isolation: every statement in the
// transaction sees the database as of its first read.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead}, fn)
}

// Read-only transaction for consistent multi-table snapshots
func (u *PostgresUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db sqlc.DBTX) error) error {
	return u.runReadOnlyTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (u *PostgresUoW) WithDB(ctx context.Context, fn func(ctx context.Context, db sqlc.DBTX) error) error {
	return fn(ctx, u.pool)
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	for attempt := 0; attempt <= u.maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		err = u.setDurability(ctx, pgxTx)
		if err == nil {
			err = fn(ctx, &pgTx{dbtx: pgxTx, uow: u})
		}
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		// Rollback uses a fresh context so an expired deadline still releases the connection.
		rbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		if rollbackErr := pgxTx.Rollback(rbCtx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}
		cancel()

		if !shouldRetry(err, attempt, u.maxRetries) {
			if u.maxRetries > 0 && attempt == u.maxRetries && isRetryableError(err) {
				slog.Error("transaction failed after max retries",
					"attempts", attempt+1,
					"error", err.Error())
				return errs.Mark(err, errMaxRetriesExceeded)
			}
			return err
		}

		waitTime := calculateBackoff(attempt, u.retryBase)

		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

func (u *PostgresUoW) setDurability(ctx context.Context, tx sqlc.DBTX) error {
	if u.synchronousCommit == "" {
		return nil
	}
	if err := u.q.SetSynchronousCommit(ctx, tx, u.synchronousCommit); err != nil {
		return errs.Mark(err, errDurabilitySetup)
	}
	return nil
}

func (u *PostgresUoW) runReadOnlyTx(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, db sqlc.DBTX) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, options)
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}

	defer func() {
		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("failed to rollback read-only transaction", "error", rollbackErr.Error())
			}
		}
	}()

	if err := fn(ctx, pgxTx); err != nil {
		return err
	}

	return pgxTx.Commit(ctx)
}

func shouldRetry(err error, attempt, maxRetries int) bool {
	return isRetryableError(err) && attempt < maxRetries
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- masked to a non-negative value above
	return int64(uval) % n
}

func isRetryableError(err error) bool {
	return infra.Classify(err) == infra.KindSerializationFailure
}

type pgTx struct {
	dbtx sqlc.DBTX
	uow  *PostgresUoW

	// Lazy-initialized repositories
	bookingRepo shared.BookingRepository
	outboxRepo  shared.OutboxRepository
	userRepo    shared.UserRepository
}

func (t *pgTx) DB() sqlc.DBTX {
	return t.dbtx
}

func (t *pgTx) Bookings() shared.BookingRepository {
	if t.bookingRepo == nil {
		t.bookingRepo = repository.NewBookingRepository(t.uow.q)
	}
	return t.bookingRepo
}

func (t *pgTx) Outbox() shared.OutboxRepository {
	if t.outboxRepo == nil {
		t.outboxRepo = repository.NewOutboxRepository(t.uow.q)
	}
	return t.outboxRepo
}

func (t *pgTx) Users() shared.UserRepository {
	if t.userRepo == nil {
		t.userRepo = repository.NewUserRepository(t.uow.q)
	}
	return t.userRepo
}

package outbox

import (
	"context"
	"log/slog"
	"time"

	"coach-booking/internal/infra"
	sqlc "coach-booking/internal/infra/sqlc/generated"
	"coach-booking/internal/pkg/config"
	"coach-booking/internal/pkg/errs"
	"coach-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const maxErrorLength = 500

type Beginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type Queries interface {
	ListPendingOutboxEvents(ctx context.Context, db sqlc.DBTX, limit int32) ([]sqlc.OutboxEvent, error)
	MarkOutboxPublished(ctx context.Context, db sqlc.DBTX, id uuid.UUID) error
	MarkOutboxFailed(ctx context.Context, db sqlc.DBTX, arg sqlc.MarkOutboxFailedParams) error
}

type Publisher interface {
	Publish(ctx context.Context, topic string, body []byte) error
}

// Relay forwards committed outbox rows to the broker. Rows are locked with
// SKIP LOCKED so several instances can relay concurrently without
// publishing the same event twice in one pass.
type Relay struct {
	pool      Beginner
	queries   Queries
	publisher Publisher
	batchSize int32
	logger    *slog.Logger
}

func NewRelay(pool Beginner, queries Queries, publisher Publisher, cfg config.OutboxConfig, logger *slog.Logger) *Relay {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 50
	}
	return &Relay{
		pool:      pool,
		queries:   queries,
		publisher: publisher,
		batchSize: batch,
		logger:    logger,
	}
}

// RunOnce relays a single batch and returns how many events were published.
func (r *Relay) RunOnce(ctx context.Context) (published int, err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return 0, infra.WrapRepoErr("failed to begin outbox relay", err, infra.KindDBFailure)
	}
	defer func() {
		if err != nil {
			rbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
			defer cancel()
			_ = tx.Rollback(rbCtx)
		}
	}()

	events, err := r.queries.ListPendingOutboxEvents(ctx, tx, r.batchSize)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to list pending outbox events", err)
	}

	for _, ev := range events {
		if pubErr := r.publisher.Publish(ctx, ev.Topic, ev.Payload); pubErr != nil {
			r.logger.Warn("outbox publish failed",
				"event_id", ev.ID,
				"topic", ev.Topic,
				"attempts", ev.Attempts+1,
				"error", pubErr)
			if err = r.queries.MarkOutboxFailed(ctx, tx, sqlc.MarkOutboxFailedParams{
				ID:        ev.ID,
				LastError: pgconv.StringToPgtype(truncate(pubErr.Error(), maxErrorLength)),
			}); err != nil {
				return 0, infra.WrapRepoErr("failed to record outbox failure", err)
			}
			continue
		}

		if err = r.queries.MarkOutboxPublished(ctx, tx, ev.ID); err != nil {
			return 0, infra.WrapRepoErr("failed to mark outbox event published", err)
		}
		published++
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, errs.Wrap(err, "commit outbox relay")
	}

	if len(events) > 0 {
		r.logger.Debug("outbox batch relayed", "pending", len(events), "published", published)
	}
	return published, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

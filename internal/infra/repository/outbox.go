package repository

import (
	"context"
	"encoding/json"

	"coach-booking/internal/infra"
	sqlc "coach-booking/internal/infra/sqlc/generated"
)

type OutboxWriteQueries interface {
	InsertOutboxEvent(ctx context.Context, db sqlc.DBTX, arg sqlc.InsertOutboxEventParams) error
}

type OutboxRepository struct {
	queries OutboxWriteQueries
}

func NewOutboxRepository(queries OutboxWriteQueries) *OutboxRepository {
	return &OutboxRepository{
		queries: queries,
	}
}

func (r *OutboxRepository) Append(ctx context.Context, tx sqlc.DBTX, topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return infra.WrapRepoErr("failed to encode outbox payload", err, infra.KindDBFailure)
	}

	err = r.queries.InsertOutboxEvent(ctx, tx, sqlc.InsertOutboxEventParams{
		Topic:   topic,
		Payload: body,
	})
	if err != nil {
		return infra.WrapRepoErr("failed to append outbox event", err)
	}

	return nil
}

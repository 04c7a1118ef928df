package queries

//go:generate mockgen -source=seat.go -destination=../../../tests/mock/queries/seat_mock.go -package=queriesmock

import (
	"context"
	"log/slog"

	"coach-booking/internal/domain/coach"
	"coach-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type SeatQueries interface {
	// SeatStatus reports all 80 seats in ascending order.
	SeatStatus(ctx context.Context) ([]SeatStatusView, error)
	MyBookings(ctx context.Context, userID uuid.UUID) ([]*BookingView, error)
}

type BookingReadStore interface {
	BookedSeatNumbers(ctx context.Context) ([]int, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*BookingView, error)
}

type seatQueriesImpl struct {
	readStore BookingReadStore
	cache     shared.SeatStatusCache
	logger    *slog.Logger
}

func NewSeatQueries(readStore BookingReadStore, cache shared.SeatStatusCache, logger *slog.Logger) SeatQueries {
	return &seatQueriesImpl{
		readStore: readStore,
		cache:     cache,
		logger:    logger,
	}
}

func (q *seatQueriesImpl) SeatStatus(ctx context.Context) ([]SeatStatusView, error) {
	booked, err := q.bookedSeats(ctx)
	if err != nil {
		return nil, err
	}

	states := coach.SeatMap(booked)
	views := make([]SeatStatusView, len(states))
	for i, s := range states {
		views[i] = SeatStatusView{SeatNumber: s.SeatNumber, Status: string(s.Status)}
	}
	return views, nil
}

// Cache failures fall through to the store. The generation is taken before
// the store read so a fill racing a booking's invalidation is discarded.
func (q *seatQueriesImpl) bookedSeats(ctx context.Context) ([]int, error) {
	if booked, ok, err := q.cache.Get(ctx); err != nil {
		q.logger.Warn("seat status cache read failed", "error", err.Error())
	} else if ok {
		return booked, nil
	}

	gen, genErr := q.cache.Generation(ctx)
	if genErr != nil {
		q.logger.Warn("seat status cache generation read failed", "error", genErr.Error())
	}

	booked, err := q.readStore.BookedSeatNumbers(ctx)
	if err != nil {
		return nil, err
	}

	if genErr == nil {
		if err := q.cache.Set(ctx, gen, booked); err != nil {
			q.logger.Warn("seat status cache write failed", "error", err.Error())
		}
	}
	return booked, nil
}

func (q *seatQueriesImpl) MyBookings(ctx context.Context, userID uuid.UUID) ([]*BookingView, error) {
	return q.readStore.ListByUser(ctx, userID)
}

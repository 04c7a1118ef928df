package readstore

import (
	"context"

	"github.com/google/uuid"

	"coach-booking/internal/infra"
	"coach-booking/internal/infra/repository/converter"
	sqlc "coach-booking/internal/infra/sqlc/generated"
	"coach-booking/internal/pkg/pgconv"
	"coach-booking/internal/usecase/queries"
)

type BookingReadQueries interface {
	ListBookedSeatNumbers(ctx context.Context, db sqlc.DBTX) ([]int16, error)
	ListBookingsByUser(ctx context.Context, db sqlc.DBTX, userID uuid.UUID) ([]sqlc.Booking, error)
}

type BookingReadStore struct {
	queries BookingReadQueries
	db      sqlc.DBTX
}

func NewBookingReadStore(queries BookingReadQueries, db sqlc.DBTX) *BookingReadStore {
	return &BookingReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *BookingReadStore) BookedSeatNumbers(ctx context.Context) ([]int, error) {
	rows, err := r.queries.ListBookedSeatNumbers(ctx, r.db)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list booked seats", err)
	}
	return converter.SeatsFromInfra(rows), nil
}

func (r *BookingReadStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*queries.BookingView, error) {
	rows, err := r.queries.ListBookingsByUser(ctx, r.db, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by user", err)
	}

	views := make([]*queries.BookingView, 0, len(rows))
	for _, row := range rows {
		views = append(views, toBookingView(row))
	}
	return views, nil
}

func toBookingView(row sqlc.Booking) *queries.BookingView {
	return &queries.BookingView{
		ID:          row.ID,
		UserID:      row.UserID,
		SeatNumbers: converter.SeatsFromInfra(row.SeatNumbers),
		CreatedAt:   pgconv.TimeFromPgtype(row.CreatedAt),
	}
}

package repository

import (
	"context"

	"coach-booking/internal/domain/booking"
	"coach-booking/internal/infra"
	"coach-booking/internal/infra/repository/converter"
	sqlc "coach-booking/internal/infra/sqlc/generated"
	"coach-booking/internal/pkg/errs"
	"coach-booking/internal/pkg/pgconv"
)

var errSeatClaimMismatch = errs.New("booked seat rows do not match booking")

type BookingWriteQueries interface {
	ListBookedSeatNumbers(ctx context.Context, db sqlc.DBTX) ([]int16, error)
	CreateBooking(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateBookingParams) (sqlc.Booking, error)
	InsertBookedSeats(ctx context.Context, db sqlc.DBTX, arg sqlc.InsertBookedSeatsParams) (int64, error)
	DeleteAllBookings(ctx context.Context, db sqlc.DBTX) (int64, error)
}

type BookingRepository struct {
	queries BookingWriteQueries
}

func NewBookingRepository(queries BookingWriteQueries) *BookingRepository {
	return &BookingRepository{
		queries: queries,
	}
}

func (r *BookingRepository) BookedSeats(ctx context.Context, tx sqlc.DBTX) ([]int, error) {
	rows, err := r.queries.ListBookedSeatNumbers(ctx, tx)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list booked seats", err)
	}
	return converter.SeatsFromInfra(rows), nil
}

// Create inserts the booking row and one booked_seats row per seat. A seat
// already claimed by a concurrent commit fails with DUPLICATE_KEY.
func (r *BookingRepository) Create(ctx context.Context, tx sqlc.DBTX, b *booking.Booking) (*booking.Booking, error) {
	row, err := r.queries.CreateBooking(ctx, tx, converter.BookingToInfra(b))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to create booking", err)
	}

	claimed, err := r.queries.InsertBookedSeats(ctx, tx, sqlc.InsertBookedSeatsParams{
		SeatNumbers: row.SeatNumbers,
		BookingID:   row.ID,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim seats", err)
	}
	if claimed != int64(b.Seats().Len()) {
		return nil, infra.WrapRepoErr("failed to claim seats", errSeatClaimMismatch, infra.KindCheckViolated)
	}

	return b.Persisted(row.ID, pgconv.TimeFromPgtype(row.CreatedAt)), nil
}

func (r *BookingRepository) DeleteAll(ctx context.Context, tx sqlc.DBTX) (int64, error) {
	n, err := r.queries.DeleteAllBookings(ctx, tx)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete bookings", err)
	}
	return n, nil
}

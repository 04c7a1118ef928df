//go:build unit || e2e

package builder

import (
	"time"

	"coach-booking/internal/domain/booking"
	sqlc "coach-booking/internal/infra/sqlc/generated"
	"coach-booking/internal/pkg/clock"
	"coach-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

var fixedNow = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

type BookingBuilder struct {
	ID          uuid.UUID
	RequesterID uuid.UUID
	Seats       []int
	CreatedAt   time.Time
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		ID:          uuid.New(),
		RequesterID: uuid.New(),
		Seats:       []int{1, 2, 3},
		CreatedAt:   fixedNow,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) WithRequester(id uuid.UUID) *BookingBuilder {
	b.RequesterID = id
	return b
}

func (b *BookingBuilder) WithSeats(seats ...int) *BookingBuilder {
	b.Seats = seats
	return b
}

// BuildDomain returns an unpersisted booking.
func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	return booking.NewBooking(clock.NewFixedClock(b.CreatedAt), b.RequesterID, b.Seats)
}

func (b *BookingBuilder) BuildInfra() sqlc.Booking {
	seats := make([]int16, len(b.Seats))
	for i, s := range b.Seats {
		seats[i] = int16(s)
	}
	return sqlc.Booking{
		ID:          b.ID,
		UserID:      b.RequesterID,
		SeatNumbers: seats,
		CreatedAt:   pgtype.Timestamptz{Time: b.CreatedAt, Valid: true},
	}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	return &queries.BookingView{
		ID:          b.ID,
		UserID:      b.RequesterID,
		SeatNumbers: b.Seats,
		CreatedAt:   b.CreatedAt,
	}
}

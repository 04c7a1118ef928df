package converter

import (
	"fmt"
	"math"

	"coach-booking/internal/domain/booking"
	sqlc "coach-booking/internal/infra/sqlc/generated"
)

func BookingToInfra(b *booking.Booking) sqlc.CreateBookingParams {
	return sqlc.CreateBookingParams{
		UserID:      b.RequesterID(),
		SeatNumbers: SeatsToInfra(b.SeatNumbers()),
	}
}

// SeatsToInfra narrows seat numbers to smallint. Callers validate the range first.
func SeatsToInfra(seats []int) []int16 {
	out := make([]int16, len(seats))
	for i, s := range seats {
		if s > math.MaxInt16 || s < math.MinInt16 {
			panic(fmt.Sprintf("seat number out of int16 range: %d", s))
		}
		out[i] = int16(s)
	}
	return out
}

func SeatsFromInfra(seats []int16) []int {
	out := make([]int, len(seats))
	for i, s := range seats {
		out[i] = int(s)
	}
	return out
}

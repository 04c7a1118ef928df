package booking

import (
	"errors"
	"slices"

	"coach-booking/internal/domain/coach"
)

var (
	ErrEmptySeatSet     = errors.New("must book at least one seat")
	ErrTooManySeats     = errors.New("a booking holds at most 7 seats")
	ErrSeatOutOfRange   = errors.New("seat number out of range")
	ErrDuplicateSeat    = errors.New("seat listed twice in one booking")
	ErrMissingRequester = errors.New("requester id is required")
)

// SeatSet is an ascending, duplicate free set of 1..7 seat numbers.
type SeatSet struct {
	seats []int
}

func NewSeatSet(seats []int) (SeatSet, error) {
	if len(seats) == 0 {
		return SeatSet{}, ErrEmptySeatSet
	}
	if len(seats) > coach.MaxSeatsPerBooking {
		return SeatSet{}, ErrTooManySeats
	}

	sorted := slices.Clone(seats)
	slices.Sort(sorted)
	for i, s := range sorted {
		if !coach.IsValidSeat(s) {
			return SeatSet{}, ErrSeatOutOfRange
		}
		if i > 0 && sorted[i-1] == s {
			return SeatSet{}, ErrDuplicateSeat
		}
	}
	return SeatSet{seats: sorted}, nil
}

func (s SeatSet) Seats() []int {
	return slices.Clone(s.seats)
}

func (s SeatSet) Len() int {
	return len(s.seats)
}

func (s SeatSet) Contains(seat int) bool {
	_, found := slices.BinarySearch(s.seats, seat)
	return found
}

// SeatCount is a validated number of seats requested in one booking.
type SeatCount struct {
	value int
}

func NewSeatCount(n int) (SeatCount, error) {
	if !coach.IsValidCount(n) {
		return SeatCount{}, coach.ErrInvalidCount
	}
	return SeatCount{value: n}, nil
}

func (c SeatCount) Int() int {
	return c.value
}

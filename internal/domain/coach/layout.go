package coach

import (
	"errors"
)

// Fixed coach geometry. Rows 1-11 hold seven consecutive seats, row 12 holds the last three.
const (
	TotalSeats         = 80
	SeatsPerFullRow    = 7
	RowCount           = 12
	MaxSeatsPerBooking = SeatsPerFullRow
)

var lastRowSeats = [...]int{78, 79, 80}

var (
	ErrOutOfRange   = errors.New("seat number out of range")
	ErrInvalidCount = errors.New("seat count must be between 1 and 7")
)

// RowOf returns the row that holds seat.
func RowOf(seat int) (int, error) {
	if !IsValidSeat(seat) {
		return 0, ErrOutOfRange
	}
	if seat >= lastRowSeats[0] {
		return RowCount, nil
	}
	return (seat-1)/SeatsPerFullRow + 1, nil
}

// SeatsInRow returns the seats of row in ascending order, or nil for an unknown row.
func SeatsInRow(row int) []int {
	if row < 1 || row > RowCount {
		return nil
	}
	if row == RowCount {
		seats := make([]int, len(lastRowSeats))
		copy(seats, lastRowSeats[:])
		return seats
	}

	start := (row-1)*SeatsPerFullRow + 1
	seats := make([]int, SeatsPerFullRow)
	for i := range seats {
		seats[i] = start + i
	}
	return seats
}

func IsValidSeat(seat int) bool {
	return seat >= 1 && seat <= TotalSeats
}

func IsValidCount(count int) bool {
	return count >= 1 && count <= MaxSeatsPerBooking
}

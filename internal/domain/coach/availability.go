package coach

// AvailableSeats returns every seat in [1, TotalSeats] not present in booked, ascending.
// Out-of-range and duplicate entries in booked are ignored.
func AvailableSeats(booked []int) []int {
	var taken [TotalSeats + 1]bool
	for _, s := range booked {
		if IsValidSeat(s) {
			taken[s] = true
		}
	}

	available := make([]int, 0, TotalSeats)
	for s := 1; s <= TotalSeats; s++ {
		if !taken[s] {
			available = append(available, s)
		}
	}
	return available
}

type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatBooked    SeatStatus = "booked"
)

type SeatState struct {
	SeatNumber int
	Status     SeatStatus
}

// SeatMap reports the status of all seats in ascending order.
func SeatMap(booked []int) []SeatState {
	var taken [TotalSeats + 1]bool
	for _, s := range booked {
		if IsValidSeat(s) {
			taken[s] = true
		}
	}

	states := make([]SeatState, TotalSeats)
	for i := range states {
		seat := i + 1
		status := SeatAvailable
		if taken[seat] {
			status = SeatBooked
		}
		states[i] = SeatState{SeatNumber: seat, Status: status}
	}
	return states
}

package request

// NumSeats is a pointer so that a missing field fails "required" instead of binding as 0.
type CreateBookingRequest struct {
	NumSeats *int `json:"numSeats" binding:"required,seatcount"`
}

func (r CreateBookingRequest) Count() int {
	if r.NumSeats == nil {
		return 0
	}
	return *r.NumSeats
}

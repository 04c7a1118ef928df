package response

import (
	"time"

	"github.com/google/uuid"
)

type SeatStatusResponse struct {
	SeatNumber int    `json:"seatNumber"`
	Status     string `json:"status"`
}

type CreateBookingResponse struct {
	BookingID   uuid.UUID `json:"bookingId"`
	BookedSeats []int     `json:"bookedSeats"`
	Strategy    string    `json:"strategy"`
}

// BookingItemResponse field names mirror queries.BookingView for copier.
type BookingItemResponse struct {
	ID          uuid.UUID `json:"bookingId"`
	SeatNumbers []int     `json:"bookedSeats"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ResetResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}

package shared

import (
	"time"

	"github.com/google/uuid"
)

const (
	TopicBookingCreated = "booking.created"
	TopicBookingsReset  = "bookings.reset"
)

type BookingCreatedEvent struct {
	BookingID uuid.UUID `json:"bookingId"`
	UserID    uuid.UUID `json:"userId"`
	Seats     []int     `json:"seats"`
	CreatedAt time.Time `json:"createdAt"`
}

type BookingsResetEvent struct {
	DeletedCount int64     `json:"deletedCount"`
	ResetAt      time.Time `json:"resetAt"`
}

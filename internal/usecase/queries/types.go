package queries

import (
	"time"

	"github.com/google/uuid"
)

type SeatStatusView struct {
	SeatNumber int    `json:"seat_number"`
	Status     string `json:"status"`
}

type BookingView struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	SeatNumbers []int     `json:"seat_numbers"`
	CreatedAt   time.Time `json:"created_at"`
}

type UserView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

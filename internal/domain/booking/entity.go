package booking

import (
	"time"

	"coach-booking/internal/pkg/clock"

	"github.com/google/uuid"
)

// Booking binds one requester to a disjoint set of seats. It is immutable once
// created; the id is assigned by the store when the booking is persisted.
type Booking struct {
	id          uuid.UUID
	requesterID uuid.UUID
	seats       SeatSet
	createdAt   time.Time
}

func NewBooking(c clock.Clock, requesterID uuid.UUID, seatNumbers []int) (*Booking, error) {
	if requesterID == uuid.Nil {
		return nil, ErrMissingRequester
	}
	seats, err := NewSeatSet(seatNumbers)
	if err != nil {
		return nil, err
	}

	return &Booking{
		requesterID: requesterID,
		seats:       seats,
		createdAt:   c.Now(),
	}, nil
}

func ReconstructBooking(id, requesterID uuid.UUID, seats SeatSet, createdAt time.Time) *Booking {
	return &Booking{
		id:          id,
		requesterID: requesterID,
		seats:       seats,
		createdAt:   createdAt,
	}
}

// Persisted returns the booking as stored under id.
func (b *Booking) Persisted(id uuid.UUID, createdAt time.Time) *Booking {
	return ReconstructBooking(id, b.requesterID, b.seats, createdAt)
}

func (b *Booking) IsPersisted() bool { return b.id != uuid.Nil }

func (b *Booking) ID() uuid.UUID          { return b.id }
func (b *Booking) RequesterID() uuid.UUID { return b.requesterID }
func (b *Booking) Seats() SeatSet         { return b.seats }
func (b *Booking) SeatNumbers() []int     { return b.seats.Seats() }
func (b *Booking) CreatedAt() time.Time   { return b.createdAt }

//go:build unit

package booking_test

import (
	"testing"
	"time"

	"coach-booking/internal/domain/booking"
	"coach-booking/internal/domain/coach"
	"coach-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.BookingBuilder)
	errIs  error
}

func TestBooking(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		b := builder.NewBookingBuilder().WithSeats(3, 1, 2)
		actual, err := b.BuildDomain()
		require.NoError(t, err)

		assert.False(t, actual.IsPersisted())
		assert.Equal(t, b.RequesterID, actual.RequesterID())
		assert.Equal(t, []int{1, 2, 3}, actual.SeatNumbers())
		assert.Equal(t, b.CreatedAt, actual.CreatedAt())
	})

	t.Run("persisted copy keeps seats and requester", func(t *testing.T) {
		draft, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)

		id := uuid.New()
		at := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
		stored := draft.Persisted(id, at)

		assert.True(t, stored.IsPersisted())
		assert.Equal(t, id, stored.ID())
		assert.Equal(t, at, stored.CreatedAt())
		assert.Equal(t, draft.SeatNumbers(), stored.SeatNumbers())
		assert.False(t, draft.IsPersisted())
	})

	t.Run("seat set validation", func(t *testing.T) {
		runCases(t, []testCase{
			{name: "single seat", mutate: func(b *builder.BookingBuilder) { b.WithSeats(80) }},
			{name: "seven seats", mutate: func(b *builder.BookingBuilder) { b.WithSeats(1, 2, 3, 4, 5, 6, 7) }},
			{name: "empty", mutate: func(b *builder.BookingBuilder) { b.WithSeats() }, errIs: booking.ErrEmptySeatSet},
			{name: "eight seats", mutate: func(b *builder.BookingBuilder) { b.WithSeats(1, 2, 3, 4, 5, 6, 7, 8) }, errIs: booking.ErrTooManySeats},
			{name: "seat zero", mutate: func(b *builder.BookingBuilder) { b.WithSeats(0, 1) }, errIs: booking.ErrSeatOutOfRange},
			{name: "seat 81", mutate: func(b *builder.BookingBuilder) { b.WithSeats(81) }, errIs: booking.ErrSeatOutOfRange},
			{name: "duplicate seat", mutate: func(b *builder.BookingBuilder) { b.WithSeats(4, 4) }, errIs: booking.ErrDuplicateSeat},
			{name: "missing requester", mutate: func(b *builder.BookingBuilder) { b.WithRequester(uuid.Nil) }, errIs: booking.ErrMissingRequester},
		})
	})
}

func TestSeatSet(t *testing.T) {
	set, err := booking.NewSeatSet([]int{9, 8, 10})
	require.NoError(t, err)

	assert.Equal(t, 3, set.Len())
	assert.True(t, set.Contains(9))
	assert.False(t, set.Contains(11))

	seats := set.Seats()
	seats[0] = 99
	assert.Equal(t, []int{8, 9, 10}, set.Seats())
}

func TestSeatCount(t *testing.T) {
	for _, n := range []int{1, 4, 7} {
		c, err := booking.NewSeatCount(n)
		require.NoError(t, err)
		assert.Equal(t, n, c.Int())
	}
	for _, n := range []int{-1, 0, 8} {
		_, err := booking.NewSeatCount(n)
		assert.ErrorIs(t, err, coach.ErrInvalidCount, "count %d", n)
	}
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := builder.NewBookingBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NoError(t, err)
				require.NotNil(t, actual)
			} else {
				require.Nil(t, actual)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}

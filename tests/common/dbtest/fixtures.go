//go:build unit || e2e

package dbtest

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"coach-booking/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

const DefaultPassword = "password123"

// DBLike is satisfied by a pool, a connection or an open transaction.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	hashOnce    sync.Once
	defaultHash string
	hashErr     error
)

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	hashOnce.Do(func() {
		defaultHash, hashErr = password.HashPassword(DefaultPassword)
	})
	require.NoError(t, hashErr)

	ctx := context.Background()
	name := strings.Split(email, "@")[0]

	var userID uuid.UUID
	err := db.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role) VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET role = EXCLUDED.role
		RETURNING id`,
		name, email, defaultHash, role).Scan(&userID)
	require.NoError(t, err)

	return userID
}

// SeedBooking writes a booking directly, bypassing selection.
func SeedBooking(t *testing.T, db DBLike, userID uuid.UUID, seats ...int16) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	var bookingID uuid.UUID
	err := db.QueryRow(ctx,
		"INSERT INTO bookings (user_id, seat_numbers) VALUES ($1, $2) RETURNING id",
		userID, seats).Scan(&bookingID)
	require.NoError(t, err)

	_, err = db.Exec(ctx,
		"INSERT INTO booked_seats (seat_number, booking_id) SELECT unnest($1::smallint[]), $2",
		seats, bookingID)
	require.NoError(t, err)

	return bookingID
}

// FillAllExcept books every seat not listed in free, one booking per seat row chunk.
func FillAllExcept(t *testing.T, db DBLike, userID uuid.UUID, free ...int) {
	t.Helper()

	keep := make(map[int]bool, len(free))
	for _, s := range free {
		keep[s] = true
	}

	var chunk []int16
	for seat := 1; seat <= 80; seat++ {
		if !keep[seat] {
			chunk = append(chunk, int16(seat))
		}
		if len(chunk) == 7 || (seat == 80 && len(chunk) > 0) {
			SeedBooking(t, db, userID, chunk...)
			chunk = nil
		}
	}
}

func CountBookings(t *testing.T, db DBLike) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(context.Background(), "SELECT count(*) FROM bookings").Scan(&n))
	return n
}

func CountBookedSeats(t *testing.T, db DBLike) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(context.Background(), "SELECT count(*) FROM booked_seats").Scan(&n))
	return n
}

// truncates all application tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := pool.Exec(ctx, "TRUNCATE booked_seats, bookings, outbox_events, users RESTART IDENTITY CASCADE")
	return err
}

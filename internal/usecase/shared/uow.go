package shared

//go:generate mockgen -source=uow.go -destination=../../../tests/mock/shared/uow_mock.go -package=sharedmock

import (
	"context"

	"coach-booking/internal/domain/booking"
	"coach-booking/internal/domain/user"
	sqlc "coach-booking/internal/infra/sqlc/generated"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Snapshot-isolated write transaction committed with the configured durability
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db sqlc.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db sqlc.DBTX) error) error
}

type Tx interface {
	Bookings() BookingRepository
	Outbox() OutboxRepository
	Users() UserRepository
	DB() sqlc.DBTX
}

type BookingRepository interface {
	// BookedSeats returns every occupied seat number as seen by the transaction snapshot.
	BookedSeats(ctx context.Context, tx sqlc.DBTX) ([]int, error)
	// Create stores the booking and claims its seats, returning the persisted booking.
	Create(ctx context.Context, tx sqlc.DBTX, b *booking.Booking) (*booking.Booking, error)
	DeleteAll(ctx context.Context, tx sqlc.DBTX) (int64, error)
}

type OutboxRepository interface {
	Append(ctx context.Context, tx sqlc.DBTX, topic string, payload any) error
}

type UserRepository interface {
	Create(ctx context.Context, tx sqlc.DBTX, u *user.User) (uuid.UUID, error)
	PromoteToAdmin(ctx context.Context, tx sqlc.DBTX, email string) (uuid.UUID, error)
}

// SeatStatusCache holds the committed booked-seat list between writes.
// Every Invalidate advances the generation; Set stores nothing when the
// generation moved after the caller read it, so a list read before a commit
// never lands in the cache after that commit's invalidation.
type SeatStatusCache interface {
	Get(ctx context.Context) (booked []int, ok bool, err error)
	Generation(ctx context.Context) (int64, error)
	Set(ctx context.Context, gen int64, booked []int) error
	Invalidate(ctx context.Context) error
}

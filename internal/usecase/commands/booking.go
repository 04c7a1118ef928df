package commands

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/commands/booking_mock.go -package=commandsmock

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"coach-booking/internal/domain/auth"
	"coach-booking/internal/domain/booking"
	"coach-booking/internal/domain/coach"
	"coach-booking/internal/infra"
	"coach-booking/internal/pkg/clock"
	"coach-booking/internal/pkg/config"
	"coach-booking/internal/pkg/errs"
	"coach-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrAuthMissing          = errs.New("authenticated requester required")
	ErrAdminRequired        = errs.New("admin role required")
	ErrInvalidSeatCount     = errs.New("number of seats must be between 1 and 7")
	ErrSelectionMismatch    = errs.New("selector returned a different number of seats than requested")
	ErrBookingDeadline      = errs.New("booking deadline exceeded")
	ErrBookingConflict      = errs.New("seats were claimed by a concurrent booking")
	ErrBookingInvalidRecord = errs.New("booking failed store validation")
)

type BookingState string

const (
	StateIdle            BookingState = "Idle"
	StateTransactionOpen BookingState = "TransactionOpen"
	StateRead            BookingState = "Read"
	StateSelected        BookingState = "Selected"
	StatePersisted       BookingState = "Persisted"
	StateAborted         BookingState = "Aborted"
)

type BookingResult struct {
	BookingID uuid.UUID
	Seats     []int
	Strategy  coach.Strategy
	CreatedAt time.Time
}

type ResetResult struct {
	DeletedCount int64
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, principal auth.Principal, numSeats int) (*BookingResult, error)
	ResetBookings(ctx context.Context, principal auth.Principal) (*ResetResult, error)
}

type bookingCommandsImpl struct {
	uow     shared.UnitOfWork
	cache   shared.SeatStatusCache
	clock   clock.Clock
	timeout time.Duration
	logger  *slog.Logger
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	cache shared.SeatStatusCache,
	clk clock.Clock,
	cfg config.Config,
	logger *slog.Logger,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:     uow,
		cache:   cache,
		clock:   clk,
		timeout: cfg.Booking.Timeout,
		logger:  logger,
	}
}

// CreateBooking runs one booking request through
// Idle → TransactionOpen → Read → Selected → Persisted | Aborted.
// Auth and count checks happen before the store is touched. Every failure
// after the transaction opens rolls it back; conflicts are never retried here.
func (c *bookingCommandsImpl) CreateBooking(ctx context.Context, principal auth.Principal, numSeats int) (*BookingResult, error) {
	log := c.logger.With("user_id", principal.UserID.String(), "num_seats", numSeats)
	log.Debug("booking state", "booking_state", StateIdle)

	if !principal.IsAuthenticated() {
		return nil, errs.WithKind(ErrAuthMissing, errs.KindAuthMissing)
	}
	count, err := booking.NewSeatCount(numSeats)
	if err != nil {
		return nil, errs.WithKind(errs.Mark(err, ErrInvalidSeatCount), errs.KindInvalidRequest)
	}

	ctx, cancel := c.withDeadline(ctx)
	defer cancel()

	var result *BookingResult
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		log.Debug("booking state", "booking_state", StateTransactionOpen)

		booked, err := tx.Bookings().BookedSeats(ctx, tx.DB())
		if err != nil {
			return err
		}
		log.Debug("booking state", "booking_state", StateRead, "booked", len(booked))

		selection, err := coach.SelectSeats(coach.AvailableSeats(booked), count.Int())
		if err != nil {
			if errors.Is(err, coach.ErrInsufficientCapacity) {
				return errs.WithKind(err, errs.KindInsufficientCapacity)
			}
			return errs.WithKind(err, errs.KindSelectionInternal)
		}
		if len(selection.Seats) != count.Int() {
			return errs.WithKind(ErrSelectionMismatch, errs.KindSelectionInternal)
		}
		log.Debug("booking state", "booking_state", StateSelected,
			"seats", selection.Seats, "strategy", selection.Strategy.String())

		draft, err := booking.NewBooking(c.clock, principal.UserID, selection.Seats)
		if err != nil {
			return errs.WithKind(errs.Mark(err, ErrBookingInvalidRecord), errs.KindStoreValidation)
		}

		stored, err := tx.Bookings().Create(ctx, tx.DB(), draft)
		if err != nil {
			return err
		}

		event := shared.BookingCreatedEvent{
			BookingID: stored.ID(),
			UserID:    stored.RequesterID(),
			Seats:     stored.SeatNumbers(),
			CreatedAt: stored.CreatedAt(),
		}
		if err := tx.Outbox().Append(ctx, tx.DB(), shared.TopicBookingCreated, event); err != nil {
			return err
		}

		result = &BookingResult{
			BookingID: stored.ID(),
			Seats:     stored.SeatNumbers(),
			Strategy:  selection.Strategy,
			CreatedAt: stored.CreatedAt(),
		}
		return nil
	})
	if err != nil {
		err = classifyStoreError(ctx, err)
		log.Warn("booking aborted",
			"booking_state", StateAborted,
			"error_kind", errs.KindOf(err).String(),
			"error", err.Error())
		return nil, err
	}

	log.Info("booking committed",
		"booking_state", StatePersisted,
		"booking_id", result.BookingID.String(),
		"seats", result.Seats,
		"strategy", result.Strategy.String())

	c.invalidateCache(ctx)
	return result, nil
}

// ResetBookings removes every booking in a single statement and reports how many were deleted.
func (c *bookingCommandsImpl) ResetBookings(ctx context.Context, principal auth.Principal) (*ResetResult, error) {
	if !principal.IsAuthenticated() {
		return nil, errs.WithKind(ErrAuthMissing, errs.KindAuthMissing)
	}
	if !principal.IsAdmin() {
		return nil, errs.WithKind(ErrAdminRequired, errs.KindForbidden)
	}

	var deleted int64
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, err := tx.Bookings().DeleteAll(ctx, tx.DB())
		if err != nil {
			return err
		}
		deleted = n

		event := shared.BookingsResetEvent{DeletedCount: n, ResetAt: c.clock.Now()}
		return tx.Outbox().Append(ctx, tx.DB(), shared.TopicBookingsReset, event)
	})
	if err != nil {
		err = classifyStoreError(ctx, err)
		c.logger.Error("reset failed", "error_kind", errs.KindOf(err).String(), "error", err.Error())
		return nil, err
	}

	c.logger.Info("bookings reset", "deleted_count", deleted, "user_id", principal.UserID.String())
	c.invalidateCache(ctx)
	return &ResetResult{DeletedCount: deleted}, nil
}

func (c *bookingCommandsImpl) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// A stale cache entry only delays visibility; the store stays authoritative.
func (c *bookingCommandsImpl) invalidateCache(ctx context.Context) {
	if err := c.cache.Invalidate(context.WithoutCancel(ctx)); err != nil {
		c.logger.Warn("seat status cache invalidation failed", "error", err.Error())
	}
}

// classifyStoreError keeps kinds set inside the transaction and derives one
// from the SQLSTATE for errors raised by the store itself.
func classifyStoreError(ctx context.Context, err error) error {
	if errs.KindOf(err) != errs.KindInternal {
		return err
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errs.Mark(err, ErrBookingDeadline)
	}

	switch infra.Classify(err) {
	case infra.KindDuplicateKey, infra.KindSerializationFailure:
		return errs.WithKind(errs.Mark(err, ErrBookingConflict), errs.KindStoreConflict)
	case infra.KindCheckViolated:
		return errs.WithKind(errs.Mark(err, ErrBookingInvalidRecord), errs.KindStoreValidation)
	default:
		return err
	}
}

package infra

import (
	"errors"
	"log/slog"

	"coach-booking/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type RepositoryErrorKind string

type RepositoryError struct {
	Kind RepositoryErrorKind
	msg  string
	err  error // wrapped low-level error
}

func (e RepositoryError) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e RepositoryError) Unwrap() error {
	return e.err
}

// WrapRepoErr classifies err by its SQLSTATE unless an explicit kind is given.
func WrapRepoErr(msg string, err error, kind ...RepositoryErrorKind) error {
	k := Classify(err)
	if len(kind) > 0 {
		k = kind[0]
	}

	switch k {
	case KindNotFound:
	case KindDBFailure:
		slog.Error("Repository error: "+msg, slog.String("kind", string(k)))
	default:
		slog.Warn("Repository error: "+msg, slog.String("kind", string(k)))
	}

	if err != nil {
		err = errs.Wrap(err, msg)
	}

	return RepositoryError{Kind: k, msg: msg, err: err}
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	var e RepositoryError
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Infrastructure-specific error kinds
const (
	KindNotFound             RepositoryErrorKind = "NOT_FOUND"
	KindDBFailure            RepositoryErrorKind = "DB_FAILURE"
	KindDuplicateKey         RepositoryErrorKind = "DUPLICATE_KEY"
	KindCheckViolated        RepositoryErrorKind = "CHECK_VIOLATED"
	KindSerializationFailure RepositoryErrorKind = "SERIALIZATION_FAILURE"
)

const (
	pgErrUniqueViolation      = "23505"
	pgErrCheckViolation       = "23514"
	pgErrNotNullViolation     = "23502"
	pgErrSerializationFailure = "40001"
	pgErrDeadlockDetected     = "40P01"
)

// Classify returns the kind of an existing RepositoryError, otherwise derives
// one from the PostgreSQL SQLSTATE.
func Classify(err error) RepositoryErrorKind {
	var repoErr RepositoryError
	if errors.As(err, &repoErr) {
		return repoErr.Kind
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return KindNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return KindDBFailure
	}

	switch pgErr.Code {
	case pgErrUniqueViolation:
		return KindDuplicateKey
	case pgErrCheckViolation, pgErrNotNullViolation:
		return KindCheckViolated
	case pgErrSerializationFailure, pgErrDeadlockDetected:
		return KindSerializationFailure
	default:
		return KindDBFailure
	}
}

package errs

import "errors"

// Kind classifies failures for the boundary layer. Handlers map a Kind to a
// status code; they never inspect error text.
type Kind int

const (
	KindInternal Kind = iota
	KindAuthMissing
	KindInvalidRequest
	KindInsufficientCapacity
	KindSelectionInternal
	KindStoreConflict
	KindStoreValidation
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindAuthMissing:
		return "AuthMissing"
	case KindInvalidRequest:
		return "InvalidRequest"
	case KindInsufficientCapacity:
		return "InsufficientCapacity"
	case KindSelectionInternal:
		return "SelectionInternalError"
	case KindStoreConflict:
		return "StoreConflict"
	case KindStoreValidation:
		return "StoreValidationError"
	case KindForbidden:
		return "Forbidden"
	default:
		return "Internal"
	}
}

type kindError struct {
	kind Kind
	err  error
}

func (e *kindError) Error() string { return e.err.Error() }
func (e *kindError) Unwrap() error { return e.err }

// WithKind tags err with kind. The outermost tag wins when an error is tagged twice.
func WithKind(err error, kind Kind) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, err: err}
}

// KindOf returns the outermost Kind attached to err, or KindInternal.
func KindOf(err error) Kind {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.kind
	}
	return KindInternal
}

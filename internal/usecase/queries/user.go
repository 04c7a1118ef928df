package queries

//go:generate mockgen -source=user.go -destination=../../../tests/mock/queries/user_mock.go -package=queriesmock

import (
	"context"

	"github.com/google/uuid"

	"coach-booking/internal/infra"
	"coach-booking/internal/pkg/errs"
)

var (
	ErrUserNotFound = errs.New("user not found")
)

type UserQueries interface {
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserView, error)
}

type UserReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*UserView, error)
	FindByEmail(ctx context.Context, email string) (*UserView, string, error)
}

type userQueriesImpl struct {
	readStore UserReadStore
}

func NewUserQueries(readStore UserReadStore) UserQueries {
	return &userQueriesImpl{
		readStore: readStore,
	}
}

func (q *userQueriesImpl) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserView, error) {
	user, err := q.readStore.FindByID(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.WithKind(errs.Mark(err, ErrUserNotFound), errs.KindAuthMissing)
		}
		return nil, err
	}

	return user, nil
}

package readstore

import (
	"context"

	"github.com/google/uuid"

	"coach-booking/internal/infra"
	sqlc "coach-booking/internal/infra/sqlc/generated"
	"coach-booking/internal/usecase/queries"
)

type UserReadQueries interface {
	FindUserByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.FindUserByIDRow, error)
	FindUserByEmail(ctx context.Context, db sqlc.DBTX, email string) (sqlc.User, error)
}

type UserReadStore struct {
	queries UserReadQueries
	db      sqlc.DBTX
}

func NewUserReadStore(queries UserReadQueries, db sqlc.DBTX) *UserReadStore {
	return &UserReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.UserView, error) {
	row, err := r.queries.FindUserByID(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}

	return &queries.UserView{
		ID:    row.ID,
		Name:  row.Name,
		Email: row.Email,
		Role:  row.Role,
	}, nil
}

// FindByEmail also returns the password hash for credential checks.
func (r *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.UserView, string, error) {
	row, err := r.queries.FindUserByEmail(ctx, r.db, email)
	if err != nil {
		return nil, "", infra.WrapRepoErr("failed to find user by email", err)
	}

	return toUserView(row), row.PasswordHash, nil
}

func toUserView(row sqlc.User) *queries.UserView {
	return &queries.UserView{
		ID:    row.ID,
		Name:  row.Name,
		Email: row.Email,
		Role:  row.Role,
	}
}

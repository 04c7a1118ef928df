package repository

import (
	"context"

	"coach-booking/internal/domain/user"
	"coach-booking/internal/infra"
	sqlc "coach-booking/internal/infra/sqlc/generated"

	"github.com/google/uuid"
)

type UserWriteQueries interface {
	CreateUser(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateUserParams) (sqlc.User, error)
	PromoteUserToAdmin(ctx context.Context, db sqlc.DBTX, email string) (uuid.UUID, error)
}

type UserRepository struct {
	queries UserWriteQueries
}

func NewUserRepository(queries UserWriteQueries) *UserRepository {
	return &UserRepository{
		queries: queries,
	}
}

func (r *UserRepository) Create(ctx context.Context, tx sqlc.DBTX, u *user.User) (uuid.UUID, error) {
	row, err := r.queries.CreateUser(ctx, tx, sqlc.CreateUserParams{
		Name:         u.Name().Value(),
		Email:        u.Email().Value(),
		PasswordHash: u.PasswordHash(),
		Role:         u.Role().String(),
	})
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create user", err)
	}
	return row.ID, nil
}

// PromoteToAdmin grants the admin role to an existing account. KindNotFound
// when no account uses the email.
func (r *UserRepository) PromoteToAdmin(ctx context.Context, tx sqlc.DBTX, email string) (uuid.UUID, error) {
	id, err := r.queries.PromoteUserToAdmin(ctx, tx, email)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to promote user", err)
	}
	return id, nil
}

//go:build unit || e2e

package builder

import (
	"time"

	"coach-booking/internal/domain/user"
	sqlc "coach-booking/internal/infra/sqlc/generated"
	"coach-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type UserBuilder struct {
	Name         string
	Email        string
	PasswordHash string
	Role         string
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		Name:         "Test User",
		Email:        "test@example.com",
		PasswordHash: "hashed_password",
		Role:         "customer",
	}
}

func (u *UserBuilder) With(mutate func(*UserBuilder)) *UserBuilder {
	mutate(u)
	return u
}

func (u *UserBuilder) WithName(name string) *UserBuilder {
	u.Name = name
	return u
}

func (u *UserBuilder) WithEmail(email string) *UserBuilder {
	u.Email = email
	return u
}

func (u *UserBuilder) WithRole(role string) *UserBuilder {
	u.Role = role
	return u
}

func (u *UserBuilder) AsAdmin() *UserBuilder {
	u.Role = string(user.RoleAdmin)
	return u
}

// Build methods
func (u *UserBuilder) BuildDomain() (*user.User, error) {
	name, err := user.NewName(u.Name)
	if err != nil {
		return nil, err
	}

	email, err := user.NewEmail(u.Email)
	if err != nil {
		return nil, err
	}

	role, err := user.NewRole(u.Role)
	if err != nil {
		return nil, err
	}

	return user.NewUser(name, email, u.PasswordHash, role), nil
}

func (u *UserBuilder) BuildInfra() sqlc.User {
	now := time.Now()
	return sqlc.User{
		ID:           uuid.New(),
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		CreatedAt:    pgtype.Timestamptz{Time: now, Valid: true},
		UpdatedAt:    pgtype.Timestamptz{Time: now, Valid: true},
	}
}

func (u *UserBuilder) BuildReadModel() *queries.UserView {
	return &queries.UserView{
		ID:    uuid.New(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

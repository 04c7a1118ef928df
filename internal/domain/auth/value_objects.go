package auth

import (
	"errors"

	"coach-booking/internal/domain/user"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Credentials struct {
	email    user.Email
	password user.Password
}

func NewCredentials(emailStr, passwordStr string) (Credentials, error) {
	email, err := user.NewEmail(emailStr)
	if err != nil {
		return Credentials{}, err
	}

	password, err := user.NewPassword(passwordStr)
	if err != nil {
		return Credentials{}, err
	}

	return Credentials{
		email:    email,
		password: password,
	}, nil
}

func (c Credentials) Email() user.Email {
	return c.email
}

func (c Credentials) Password() user.Password {
	return c.password
}

// Principal is a verified requester. Only the auth middleware constructs one
// from a validated token; everything downstream receives it by value.
type Principal struct {
	UserID uuid.UUID
	Role   user.Role
}

func NewPrincipal(userID uuid.UUID, role user.Role) Principal {
	return Principal{UserID: userID, Role: role}
}

func (p Principal) IsAuthenticated() bool {
	return p.UserID != uuid.Nil
}

func (p Principal) IsAdmin() bool {
	return p.Role.AtLeast(user.RoleAdmin)
}

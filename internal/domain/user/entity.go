package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	id           uuid.UUID
	name         Name
	email        Email
	passwordHash string
	role         Role
	createdAt    time.Time
}

func NewUser(name Name, email Email, passwordHash string, role Role) *User {
	return &User{
		id:           uuid.New(),
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
	}
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Name() Name           { return u.name }
func (u *User) Email() Email         { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Role() Role           { return u.role }
func (u *User) CreatedAt() time.Time { return u.createdAt }

package user

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

const MaxNameLength = 100

var (
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrInvalidRole     = errors.New("invalid role")
	ErrInvalidName     = errors.New("name must be 1-100 characters")
	ErrPasswordTooWeak = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type Email struct {
	value string
}

func NewEmail(s string) (Email, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !emailRegex.MatchString(s) {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: s}, nil
}

func (e Email) Value() string {
	return e.value
}

type Name struct {
	value string
}

func NewName(s string) (Name, error) {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > MaxNameLength {
		return Name{}, ErrInvalidName
	}
	return Name{value: s}, nil
}

func (n Name) Value() string {
	return n.value
}

type Password struct {
	value string
}

func NewPassword(s string) (Password, error) {
	if len(s) < 8 {
		return Password{}, ErrPasswordTooWeak
	}
	if len(s) > 72 {
		return Password{}, ErrPasswordTooLong
	}
	return Password{value: s}, nil
}

func (p Password) Value() string {
	return p.value
}

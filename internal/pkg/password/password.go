package password

import (
	"errors"

	"coach-booking/internal/pkg/errs"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyPassword = errs.New("password is empty")
	ErrMismatch      = errs.New("password does not match")
)

// bcrypt ignores everything past 72 bytes, so longer inputs are rejected instead of silently truncated.
const MaxBytes = 72

var ErrTooLong = errs.Newf("password exceeds %d bytes", MaxBytes)

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if len(password) > MaxBytes {
		return "", ErrTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errs.Wrap(err, "hash password")
	}
	return string(hashed), nil
}

func ComparePassword(hashedPassword, password string) error {
	if hashedPassword == "" || password == "" {
		return ErrEmptyPassword
	}

	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return errs.Wrap(err, "compare password")
}

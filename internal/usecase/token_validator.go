package usecase

import (
	"coach-booking/internal/domain/auth"
	"coach-booking/internal/domain/user"
	"coach-booking/internal/pkg/jwt"
)

// TokenValidator turns a bearer token into a verified principal for middleware.
type TokenValidator interface {
	ValidateToken(tokenString string) (auth.Principal, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (auth.Principal, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return auth.Principal{}, err
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return auth.Principal{}, err
	}

	return auth.NewPrincipal(claims.UserID, role), nil
}

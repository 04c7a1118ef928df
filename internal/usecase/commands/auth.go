package commands

//go:generate mockgen -source=auth.go -destination=../../../tests/mock/commands/auth_mock.go -package=commandsmock

import (
	"context"

	"github.com/google/uuid"

	"coach-booking/internal/domain/auth"
	"coach-booking/internal/domain/user"
	"coach-booking/internal/infra"
	"coach-booking/internal/pkg/errs"
	"coach-booking/internal/pkg/jwt"
	"coach-booking/internal/pkg/password"
	"coach-booking/internal/usecase/queries"
	"coach-booking/internal/usecase/shared"
)

var (
	ErrInvalidCredentials   = errs.New("invalid email or password")
	ErrEmailTaken           = errs.New("email already registered")
	ErrInvalidRegistration  = errs.New("invalid registration data")
	ErrAuthenticationFailed = errs.New("authentication failed")
	ErrTokenGeneration      = errs.New("token generation failed")
	ErrInvalidAdminAccount  = errs.New("invalid admin account settings")
)

const defaultAdminName = "Administrator"

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type AdminInput struct {
	Name     string
	Email    string
	Password string
}

type AdminResult struct {
	UserID  uuid.UUID
	Created bool
}

type LoginResult struct {
	AccessToken string
	User        *queries.UserView
}

type AuthCommands interface {
	Register(ctx context.Context, in RegisterInput) (*queries.UserView, error)
	Login(ctx context.Context, email, rawPassword string) (*LoginResult, error)
	EnsureAdmin(ctx context.Context, in AdminInput) (*AdminResult, error)
}

type authCommandsImpl struct {
	uow        shared.UnitOfWork
	readStore  queries.UserReadStore
	jwtService *jwt.Service
}

func NewAuthCommands(uow shared.UnitOfWork, readStore queries.UserReadStore, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{
		uow:        uow,
		readStore:  readStore,
		jwtService: jwtService,
	}
}

// Register creates a customer account. Admins come from EnsureAdmin.
func (a *authCommandsImpl) Register(ctx context.Context, in RegisterInput) (*queries.UserView, error) {
	name, err := user.NewName(in.Name)
	if err != nil {
		return nil, errs.WithKind(errs.Mark(err, ErrInvalidRegistration), errs.KindInvalidRequest)
	}
	email, err := user.NewEmail(in.Email)
	if err != nil {
		return nil, errs.WithKind(errs.Mark(err, ErrInvalidRegistration), errs.KindInvalidRequest)
	}
	pw, err := user.NewPassword(in.Password)
	if err != nil {
		return nil, errs.WithKind(errs.Mark(err, ErrInvalidRegistration), errs.KindInvalidRequest)
	}

	hash, err := password.HashPassword(pw.Value())
	if err != nil {
		return nil, errs.Wrap(err, "hash password")
	}

	u := user.NewUser(name, email, hash, user.RoleCustomer)

	var id uuid.UUID
	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		created, err := tx.Users().Create(ctx, tx.DB(), u)
		if err != nil {
			return err
		}
		id = created
		return nil
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, errs.WithKind(errs.Mark(err, ErrEmailTaken), errs.KindStoreConflict)
		}
		return nil, err
	}

	return &queries.UserView{
		ID:    id,
		Name:  name.Value(),
		Email: email.Value(),
		Role:  user.RoleCustomer.String(),
	}, nil
}

func (a *authCommandsImpl) Login(ctx context.Context, email, rawPassword string) (*LoginResult, error) {
	credentials, err := auth.NewCredentials(email, rawPassword)
	if err != nil {
		// Malformed input gets the same answer as a wrong password.
		return nil, errs.WithKind(errs.Mark(err, ErrInvalidCredentials), errs.KindAuthMissing)
	}

	view, hashedPassword, err := a.readStore.FindByEmail(ctx, credentials.Email().Value())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.WithKind(ErrInvalidCredentials, errs.KindAuthMissing)
		}
		return nil, err
	}

	if err := password.ComparePassword(hashedPassword, credentials.Password().Value()); err != nil {
		return nil, errs.WithKind(ErrInvalidCredentials, errs.KindAuthMissing)
	}

	role, err := user.NewRole(view.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	token, err := a.jwtService.GenerateToken(view.ID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	return &LoginResult{AccessToken: token, User: view}, nil
}

// EnsureAdmin grants the admin role to the account registered under in.Email,
// creating it when none exists. An existing account keeps its password.
func (a *authCommandsImpl) EnsureAdmin(ctx context.Context, in AdminInput) (*AdminResult, error) {
	email, err := user.NewEmail(in.Email)
	if err != nil {
		return nil, errs.WithKind(errs.Mark(err, ErrInvalidAdminAccount), errs.KindInvalidRequest)
	}

	var result AdminResult
	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, err := tx.Users().PromoteToAdmin(ctx, tx.DB(), email.Value())
		if err == nil {
			result = AdminResult{UserID: id}
			return nil
		}
		if !infra.IsKind(err, infra.KindNotFound) {
			return err
		}

		admin, err := newAdminUser(in, email)
		if err != nil {
			return err
		}
		id, err = tx.Users().Create(ctx, tx.DB(), admin)
		if err != nil {
			return err
		}
		result = AdminResult{UserID: id, Created: true}
		return nil
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, errs.WithKind(errs.Mark(err, ErrEmailTaken), errs.KindStoreConflict)
		}
		return nil, err
	}
	return &result, nil
}

func newAdminUser(in AdminInput, email user.Email) (*user.User, error) {
	rawName := in.Name
	if rawName == "" {
		rawName = defaultAdminName
	}
	name, err := user.NewName(rawName)
	if err != nil {
		return nil, errs.WithKind(errs.Mark(err, ErrInvalidAdminAccount), errs.KindInvalidRequest)
	}
	pw, err := user.NewPassword(in.Password)
	if err != nil {
		return nil, errs.WithKind(errs.Mark(err, ErrInvalidAdminAccount), errs.KindInvalidRequest)
	}
	hash, err := password.HashPassword(pw.Value())
	if err != nil {
		return nil, errs.Wrap(err, "hash password")
	}
	return user.NewUser(name, email, hash, user.RoleAdmin), nil
}

package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shashiranjanraj/estoque/app/models"
	"github.com/shashiranjanraj/estoque/app/repositories"
	"github.com/shashiranjanraj/estoque/app/requests"
	"github.com/shashiranjanraj/estoque/pkg/auth"
	"github.com/shashiranjanraj/estoque/pkg/logger"
	"github.com/shashiranjanraj/estoque/pkg/validate"
)

type UserService struct {
	repo   repositories.UserRepository
	hasher auth.Hasher
}

// NewUserService builds the service. A nil hasher stores passwords verbatim.
func NewUserService(repo repositories.UserRepository, hasher auth.Hasher) *UserService {
	if hasher == nil {
		hasher = auth.Plain{}
	}
	return &UserService{repo: repo, hasher: hasher}
}

// Session is a successful login.
type Session struct {
	User  models.User
	Token string
}

// Register validates in, checks username then email for an existing user and
// stores the new one. The checks only produce friendlier messages; the
// storage unique constraints decide races, and a duplicate there is a
// Conflict as well.
func (s *UserService) Register(ctx context.Context, in requests.RegisterRequest) (models.User, error) {
	if v := validate.First(in); v != nil {
		return models.User{}, validationFailed(v)
	}

	username := strings.TrimSpace(in.Usuario)
	email := strings.TrimSpace(in.Email)

	if err := s.ensureFree(ctx, repositories.FieldUsername, username, msgUserTaken); err != nil {
		return models.User{}, err
	}
	if err := s.ensureFree(ctx, repositories.FieldEmail, email, msgEmailTaken); err != nil {
		return models.User{}, err
	}

	stored, err := s.hasher.Hash(in.Senha)
	if err != nil {
		return models.User{}, &Error{Kind: ErrStorageUnavailable, Message: msgCreateUserFailed, Cause: err}
	}

	u := models.User{Username: username, Email: email, Password: stored}
	if err := s.repo.Create(ctx, &u); err != nil {
		return models.User{}, fromRepository(err, msgUserNotFound, msgCreateUserFailed)
	}

	logger.WithCtx(ctx).Info("usuário criado", "id", u.ID.String(), "usuario", u.Username)
	return u, nil
}

func (s *UserService) ensureFree(ctx context.Context, field repositories.UserField, value, taken string) error {
	_, err := s.repo.FindByField(ctx, field, value)
	switch {
	case err == nil:
		return &Error{Kind: ErrConflict, Message: taken}
	case errors.Is(err, repositories.ErrNotFound):
		return nil
	default:
		return fromRepository(err, msgUserNotFound, msgCreateUserFailed)
	}
}

// Authenticate returns the user whose username and password match. An
// unknown username and a wrong password fail identically.
func (s *UserService) Authenticate(ctx context.Context, in requests.LoginRequest) (models.User, error) {
	if v := validate.First(in); v != nil {
		return models.User{}, validationFailed(v)
	}

	u, err := s.repo.FindByField(ctx, repositories.FieldUsername, strings.TrimSpace(in.Usuario))
	if errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, &Error{Kind: ErrAuthFailed, Message: msgBadCredentials}
	}
	if err != nil {
		return models.User{}, fromRepository(err, msgBadCredentials, msgLoginFailed)
	}

	if !s.hasher.Verify(u.Password, in.Senha) {
		return models.User{}, &Error{Kind: ErrAuthFailed, Message: msgBadCredentials}
	}
	return u, nil
}

// Login authenticates and issues a signed token.
func (s *UserService) Login(ctx context.Context, in requests.LoginRequest) (Session, error) {
	u, err := s.Authenticate(ctx, in)
	if err != nil {
		return Session{}, err
	}

	token, err := auth.GenerateToken(u.ID.String(), u.Username)
	if err != nil {
		return Session{}, &Error{Kind: ErrStorageUnavailable, Message: msgLoginFailed, Cause: err}
	}
	return Session{User: u, Token: token}, nil
}

func (s *UserService) FindByUsername(ctx context.Context, username string) (models.User, error) {
	u, err := s.repo.FindByField(ctx, repositories.FieldUsername, strings.TrimSpace(username))
	if err != nil {
		return models.User{}, fromRepository(err, msgUserNotFound, msgFindUserFailed)
	}
	return u, nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := s.repo.FindByField(ctx, repositories.FieldEmail, strings.TrimSpace(email))
	if err != nil {
		return models.User{}, fromRepository(err, msgEmailNotFound, msgFindUserFailed)
	}
	return u, nil
}

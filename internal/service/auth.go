package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/motohunt/motohunt-api/internal/apperror"
	"github.com/motohunt/motohunt-api/internal/logging"
	"github.com/motohunt/motohunt-api/internal/model"
	"github.com/motohunt/motohunt-api/internal/repository"
	"github.com/motohunt/motohunt-api/internal/utils"
)

// UserStore is the credential store the auth flows need.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id int64) (model.User, error)
	Create(ctx context.Context, username, email, passwordHash string, role model.Role) (int64, error)
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(id int64, email, role string) (utils.AccessToken, error)
}

// RegisterInput is the registration form.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginResult is returned on a successful login.  Token is handed to the
// transport; User is safe to serialise.
type LoginResult struct {
	User  model.PublicUser
	Token utils.AccessToken
}

// AuthService implements registration, login and identity lookup.
type AuthService struct {
	users      UserStore
	tokens     TokenIssuer
	bcryptCost int
	recorder   Recorder
	log        logrus.FieldLogger
}

// NewAuthService wires the auth flows.  recorder may be nil.
func NewAuthService(users UserStore, tokens TokenIssuer, bcryptCost int, recorder Recorder, log logrus.FieldLogger) *AuthService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &AuthService{users: users, tokens: tokens, bcryptCost: bcryptCost, recorder: recorder, log: log}
}

// Register creates a customer account and returns its id.  The password is
// hashed before the duplicate lookup so a taken email costs the same time
// as a fresh one.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (int64, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return 0, apperror.NewValidation("Please provide username, email and password")
	}

	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return 0, apperror.NewInternal(fmt.Errorf("hash password: %w", err))
	}

	_, err = s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return 0, apperror.NewDuplicateEmail()
	case !errors.Is(err, repository.ErrNotFound):
		return 0, apperror.NewInternal(fmt.Errorf("lookup email: %w", err))
	}

	id, err := s.users.Create(ctx, username, email, hash, model.RoleCustomer)
	if errors.Is(err, repository.ErrDuplicate) {
		// lost a race with a concurrent registration
		return 0, apperror.NewDuplicateEmail()
	}
	if err != nil {
		return 0, apperror.NewInternal(fmt.Errorf("create user: %w", err))
	}
	logging.WithUserID(s.log, id).Info("user registered")
	return id, nil
}

// Login checks the credentials and issues a session token.  Unknown emails
// and wrong passwords fail with the same error after the same bcrypt work.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return LoginResult{}, apperror.NewValidation("Please provide email and password")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		utils.VerifyPassword(utils.DummyHash(s.bcryptCost), password)
		s.recorder.LoginAttempt("invalid_credentials")
		return LoginResult{}, apperror.NewInvalidCredentials()
	}
	if err != nil {
		s.recorder.LoginAttempt("error")
		return LoginResult{}, apperror.NewInternal(fmt.Errorf("lookup email: %w", err))
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		s.recorder.LoginAttempt("invalid_credentials")
		return LoginResult{}, apperror.NewInvalidCredentials()
	}

	tok, err := s.tokens.Issue(u.ID, u.Email, string(u.Role))
	if errors.Is(err, utils.ErrMissingSecret) {
		s.recorder.LoginAttempt("error")
		return LoginResult{}, apperror.NewConfig(err)
	}
	if err != nil {
		s.recorder.LoginAttempt("error")
		return LoginResult{}, apperror.NewInternal(fmt.Errorf("issue token: %w", err))
	}
	s.recorder.LoginAttempt("success")
	logging.WithUserID(s.log, u.ID).Info("user logged in")
	return LoginResult{User: u.Public(), Token: tok}, nil
}

// CurrentUser returns the public profile for a verified session.
func (s *AuthService) CurrentUser(ctx context.Context, id int64) (model.PublicUser, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.PublicUser{}, apperror.NewNotFound("User not found")
	}
	if err != nil {
		return model.PublicUser{}, apperror.NewInternal(fmt.Errorf("get user %d: %w", id, err))
	}
	return u.Public(), nil
}

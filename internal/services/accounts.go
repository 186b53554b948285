package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tasktracker/internal/models"
	"tasktracker/internal/repositories"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type RegistrationRequest struct {
	Username        string `json:"username" binding:"required,max=50"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// Principal is what the authentication layer needs to verify a caller.
type Principal struct {
	Username     string
	PasswordHash string
	Authority    string
}

type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
}

type AccountService interface {
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	LoadPrincipal(ctx context.Context, username string) (*Principal, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	RegisterNewUser(ctx context.Context, req RegistrationRequest) (*models.User, error)
}

type AccountServiceImpl struct {
	users      UserStore
	bcryptCost int
	log        *logrus.Logger
}

func NewAccountService(users UserStore, bcryptCost int, log *logrus.Logger) *AccountServiceImpl {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AccountServiceImpl{users: users, bcryptCost: bcryptCost, log: log}
}

func (s *AccountServiceImpl) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return user, nil
}

func (s *AccountServiceImpl) LoadPrincipal(ctx context.Context, username string) (*Principal, error) {
	user, err := s.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return principalOf(user), nil
}

func principalOf(user *models.User) *Principal {
	return &Principal{
		Username:     user.Username,
		PasswordHash: user.Password,
		Authority:    user.Authority(),
	}
}

// Authenticate verifies the credentials. Unknown users and wrong
// passwords are reported identically.
func (s *AccountServiceImpl) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.log.WithField("username", username).Info("login rejected: unknown user")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !VerifyPassword(principalOf(user).PasswordHash, password) {
		s.log.WithField("username", username).Info("login rejected: bad password")
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// RegisterNewUser validates the registration and persists a new user
// with the default role. Nothing is written when validation fails.
func (s *AccountServiceImpl) RegisterNewUser(ctx context.Context, req RegistrationRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" {
		return nil, ErrInvalidRegistration
	}
	entry := s.log.WithField("username", username)

	_, err := s.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		entry.Info("registration rejected: username taken")
		return nil, ErrDuplicateAccount
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	if req.Password != req.ConfirmPassword {
		entry.Info("registration rejected: password mismatch")
		return nil, ErrPasswordMismatch
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashedPassword),
		Role:     models.RoleUser,
	}

	if err := s.users.Save(ctx, user); err != nil {
		entry.WithError(err).Warn("registration failed in store")
		return nil, fmt.Errorf("failed to persist user: %w", err)
	}

	entry.WithField("user_id", user.ID).Info("user registered")
	return user, nil
}

func VerifyPassword(hashedPassword, plainPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	return err == nil
}

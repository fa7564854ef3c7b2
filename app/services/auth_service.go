package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shashiranjanraj/vastra/app/jobs"
	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/pkg/auth"
	"github.com/shashiranjanraj/vastra/pkg/errs"
	"github.com/shashiranjanraj/vastra/pkg/event"
	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/queue"
)

// UserStore is the persistence surface AuthService needs.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
}

// AuthService implements registration, login, and identity resolution.
type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// normalizeEmail makes email lookups case-insensitive. Addresses are
// stored and compared in this form, so Priya@Example.com and
// priya@example.com are the same account.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and returns the user with a fresh token.
// A taken email yields errs.ErrDuplicateEmail.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (models.User, string, error) {
	email = normalizeEmail(email)

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, "", err
	}

	user := models.User{Name: name, Email: email, Password: hash}
	if err := s.users.Create(ctx, &user); err != nil {
		return models.User{}, "", err
	}

	token, err := auth.GenerateToken(user.ID.Hex(), user.Email)
	if err != nil {
		return models.User{}, "", err
	}

	event.Fire(event.UserRegistered, user.Public())
	if err := queue.Dispatch(&jobs.WelcomeEmailJob{Email: user.Email, Name: user.Name}); err != nil {
		// Registration already succeeded; the mail can be resent manually.
		logger.Warn("auth: welcome mail dispatch failed", "email", user.Email, "error", err)
	}

	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh token.
// An unknown email and a wrong password are indistinguishable to the
// caller: both yield errs.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return models.User{}, "", errs.ErrInvalidCredentials
		}
		return models.User{}, "", err
	}

	if !auth.CheckPassword(user.Password, password) {
		return models.User{}, "", errs.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID.Hex(), user.Email)
	if err != nil {
		return models.User{}, "", err
	}

	event.Fire(event.UserLoggedIn, user.Public())
	return user, token, nil
}

// Me resolves a token subject back to its account.
func (s *AuthService) Me(ctx context.Context, userID string) (models.User, error) {
	return s.users.FindByID(ctx, userID)
}

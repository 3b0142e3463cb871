package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/zValkyrion/fullstack-challenge-weatherApp/internal/models"
	"github.com/zValkyrion/fullstack-challenge-weatherApp/internal/observability"
)

const (
	minPasswordLength = 6
	bcryptCost        = 10
)

var (
	// ErrUsernameTaken is returned on signup when the username already exists.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials covers both unknown user and wrong password so
	// responses do not reveal which usernames exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrPasswordTooShort is returned on signup for passwords under six characters.
	ErrPasswordTooShort = errors.New("password must be at least 6 characters long")
)

// Service implements signup and login on top of a UserStore and TokenService.
type Service struct {
	store  UserStore
	tokens *TokenService
}

// NewService creates an auth Service.
func NewService(store UserStore, tokens *TokenService) *Service {
	return &Service{store: store, tokens: tokens}
}

// Signup creates a credential record and returns a signed token for the new
// user. The username is trimmed and lowercased before storage.
func (s *Service) Signup(ctx context.Context, username, password string) (string, *models.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if len(password) < minPasswordLength {
		return "", nil, ErrPasswordTooShort
	}

	if _, err := s.store.FindByUsername(ctx, username); err == nil {
		observability.AuthAttemptsTotal.WithLabelValues("signup", "conflict").Inc()
		return "", nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Username: username, PasswordHash: string(hash)}
	if err := s.store.Create(ctx, user); err != nil {
		observability.AuthAttemptsTotal.WithLabelValues("signup", "error").Inc()
		return "", nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return "", nil, err
	}
	observability.AuthAttemptsTotal.WithLabelValues("signup", "success").Inc()
	return token, user, nil
}

// Login verifies credentials and returns a signed token.
func (s *Service) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			observability.AuthAttemptsTotal.WithLabelValues("login", "denied").Inc()
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		observability.AuthAttemptsTotal.WithLabelValues("login", "denied").Inc()
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return "", nil, err
	}
	observability.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	return token, user, nil
}

// UserFromToken verifies the token and confirms the user still exists.
// Used by the protect middleware.
func (s *Service) UserFromToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	user, err := s.store.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}
	return user, nil
}

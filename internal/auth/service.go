package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/centavo/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrMissingEmail       = errors.New("email is required")
)

const minPasswordLength = 8

//go:generate mockgen -source=service.go -destination=store_mock.go -package=auth

type UserStore interface {
	CreateUser(ctx context.Context, u *user.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
}

// Service handles registration, login and session lookup. Passwords are
// bcrypt-hashed; sessions are stateless JWTs.
type Service struct {
	users  UserStore
	tokens *TokenManager
}

func NewService(users UserStore, tokens *TokenManager) *Service {
	return &Service{users: users, tokens: tokens}
}

// Register creates an account and returns it with a fresh access token.
func (s *Service) Register(ctx context.Context, email, displayName, password string) (*user.User, string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, "", ErrMissingEmail
	}

	if len(password) < minPasswordLength {
		return nil, "", ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	u := user.New(email, strings.TrimSpace(displayName), string(hash))
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Generate(u)
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}

// Login verifies credentials and returns the user with a fresh access token.
// Unknown emails and wrong passwords both come back as ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	u, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}

		return nil, "", fmt.Errorf("loading user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(u)
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}

// UserByID loads the account behind a validated session.
func (s *Service) UserByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.users.GetUser(ctx, id)
}

// Tokens exposes the token manager for the authentication middleware.
func (s *Service) Tokens() *TokenManager {
	return s.tokens
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

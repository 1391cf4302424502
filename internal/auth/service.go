package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/pairchat-server/internal/service/users"
	"github.com/vovakirdan/pairchat-server/internal/store"
)

var (
	// ErrInvalidCredentials is returned when username/password don't match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidUsername is returned when the username doesn't meet constraints.
	ErrInvalidUsername = errors.New("invalid username")
	// ErrInvalidPassword is returned when the password doesn't meet constraints.
	ErrInvalidPassword = errors.New("invalid password")
)

// Service provides registration, login, and token validation.
type Service struct {
	users     *users.Service
	jwtConfig *JWTConfig
}

// NewService creates an auth service over the user service.
func NewService(userService *users.Service, jwtConfig *JWTConfig) *Service {
	return &Service{
		users:     userService,
		jwtConfig: jwtConfig,
	}
}

// RegisterUser validates the credentials and creates the account with a
// bcrypt-hashed password. Username collisions surface as
// users.ErrUsernameTaken with nothing written.
func (s *Service) RegisterUser(ctx context.Context, username, password string) (store.User, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > 32 {
		return store.User{}, ErrInvalidUsername
	}
	if len(password) < 6 {
		return store.User{}, ErrInvalidPassword
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return store.User{}, err
	}

	return s.users.Create(ctx, username, hashed)
}

// Register creates the account and returns a signed token for it.
func (s *Service) Register(ctx context.Context, username, password string) (string, error) {
	user, err := s.RegisterUser(ctx, username, password)
	if err != nil {
		return "", err
	}

	token, err := GenerateToken(s.jwtConfig, user.ID, user.Username)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}

// Login validates credentials and returns a signed token. Unknown usernames
// and wrong passwords fail identically.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if err := ComparePassword(user.Password, password); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := GenerateToken(s.jwtConfig, user.ID, user.Username)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}

// ValidateToken validates a token and returns its claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	return ValidateToken(s.jwtConfig, tokenString)
}

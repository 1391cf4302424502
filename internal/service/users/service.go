package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/pairchat-server/internal/store"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when the username is already registered.
	ErrUsernameTaken = errors.New("username already taken")
)

// Service creates and looks up user accounts.
type Service struct {
	store store.Store
	log   *zerolog.Logger
}

// NewService creates a user service on top of the given store.
func NewService(st store.Store, logger *zerolog.Logger) *Service {
	return &Service{store: st, log: logger}
}

// Create registers a new user with a fresh random id. Usernames are unique
// under case-sensitive exact match; on collision nothing is written. The
// password is stored as given, hashing belongs to the auth layer.
func (s *Service) Create(ctx context.Context, username, password string) (store.User, error) {
	user := store.User{
		ID:       uuid.NewString(),
		Username: username,
		Password: password,
	}

	err := s.store.UpdateUsers(ctx, func(users map[string]store.User) error {
		for _, u := range users {
			if u.Username == username {
				return ErrUsernameTaken
			}
		}
		users[user.ID] = user
		return nil
	})
	if err != nil {
		return store.User{}, err
	}

	s.log.Debug().Str("user_id", user.ID).Str("username", username).Msg("user created")
	return user, nil
}

// Get returns the user with the given id.
func (s *Service) Get(ctx context.Context, id string) (store.User, error) {
	users, err := s.store.Users(ctx)
	if err != nil {
		return store.User{}, err
	}
	user, ok := users[id]
	if !ok {
		return store.User{}, ErrNotFound
	}
	return user, nil
}

// GetByUsername returns the user registered under the given username.
func (s *Service) GetByUsername(ctx context.Context, username string) (store.User, error) {
	users, err := s.store.Users(ctx)
	if err != nil {
		return store.User{}, err
	}
	for _, u := range users {
		if u.Username == username {
			return u, nil
		}
	}
	return store.User{}, ErrNotFound
}

package rooms

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/pairchat-server/internal/store"
)

var (
	// ErrNotFound is returned when the room does not exist.
	ErrNotFound = errors.New("room not found")
	// ErrExists is returned when a room for the pair already exists.
	ErrExists = errors.New("room already exists")
	// ErrUserNotFound is returned when a participant id is unknown. A
	// create racing ahead of user registration hits this routinely.
	ErrUserNotFound = errors.New("user not found")
	// ErrBadPair is returned when the pair is not two distinct user ids.
	ErrBadPair = errors.New("room requires two distinct users")
)

// DefaultHistoryLimit is how many messages Recent returns when the caller
// does not ask for a specific count.
const DefaultHistoryLimit = 20

// KeyFor returns the canonical room key for an unordered pair of user ids.
// Both argument orders produce the same key.
func KeyFor(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return "dm:" + a + ":" + b
}

// Service manages per-pair rooms and their message logs.
type Service struct {
	store store.Store
	log   *zerolog.Logger
}

// NewService creates a room service on top of the given store.
func NewService(st store.Store, logger *zerolog.Logger) *Service {
	return &Service{store: st, log: logger}
}

// Create makes the room for the pair (a, b). The insert is keyed by the
// canonical pair key, so at most one room can exist per pair regardless of
// which side initiates or how two creates race.
func (s *Service) Create(ctx context.Context, a, b string) (store.Room, error) {
	if a == "" || b == "" || a == b {
		return store.Room{}, ErrBadPair
	}

	users, err := s.store.Users(ctx)
	if err != nil {
		return store.Room{}, err
	}
	for _, id := range []string{a, b} {
		if _, ok := users[id]; !ok {
			return store.Room{}, fmt.Errorf("%w: %s", ErrUserNotFound, id)
		}
	}

	room := store.Room{
		ID:       KeyFor(a, b),
		Users:    []string{a, b},
		Messages: []store.Message{},
	}
	err = s.store.UpdateRooms(ctx, func(roomsByID map[string]store.Room) error {
		if _, ok := roomsByID[room.ID]; ok {
			return ErrExists
		}
		roomsByID[room.ID] = room
		return nil
	})
	if err != nil {
		return store.Room{}, err
	}

	s.log.Debug().Str("room_id", room.ID).Msg("room created")
	return room, nil
}

// Append adds a message with a fresh id at the tail of the room's log.
func (s *Service) Append(ctx context.Context, roomID, sender, body string, timestamp int64) (store.Message, error) {
	msg := store.Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Body:      body,
		Timestamp: timestamp,
	}

	err := s.store.UpdateRooms(ctx, func(roomsByID map[string]store.Room) error {
		room, ok := roomsByID[roomID]
		if !ok {
			return ErrNotFound
		}
		room.Messages = append(room.Messages, msg)
		roomsByID[roomID] = room
		return nil
	})
	if err != nil {
		return store.Message{}, err
	}
	return msg, nil
}

// Recent returns the last n messages of the room in append order, fewer if
// the room holds fewer. n <= 0 means DefaultHistoryLimit.
func (s *Service) Recent(ctx context.Context, roomID string, n int) ([]store.Message, error) {
	if n <= 0 {
		n = DefaultHistoryLimit
	}

	room, err := s.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}

	msgs := room.Messages
	if len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	out := make([]store.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

// Get returns the room with the given id.
func (s *Service) Get(ctx context.Context, roomID string) (store.Room, error) {
	roomsByID, err := s.store.Rooms(ctx)
	if err != nil {
		return store.Room{}, err
	}
	room, ok := roomsByID[roomID]
	if !ok {
		return store.Room{}, ErrNotFound
	}
	return room, nil
}

package store

import (
	"context"
	"errors"
)

// ErrUnavailable reports that the durable layer could not be read or written.
// Callers surface it to the client instead of retrying silently.
var ErrUnavailable = errors.New("storage unavailable")

// User is a registered account. Immutable once created.
type User struct {
	ID       string `json:"user_id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Message is a single chat message inside a room. Immutable once appended;
// its position in Room.Messages is the only ordering guarantee.
type Message struct {
	ID        string `json:"message_id"`
	Sender    string `json:"sender"`
	Body      string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// Room is the conversation context for exactly one unordered pair of users.
// The room id is the canonical key for that pair, so at most one room can
// exist per pair.
type Room struct {
	ID       string    `json:"room_id"`
	Users    []string  `json:"users"`
	Messages []Message `json:"messages"`
}

// Store provides snapshot access to the two persisted collections.
//
// The Update forms hold the collection's exclusive lock across the whole
// read-modify-write span, so two racing mutations can never lose each
// other's updates. Returning an error from fn aborts the update and nothing
// is written.
type Store interface {
	// Users returns a snapshot of the users collection keyed by user id.
	Users(ctx context.Context) (map[string]User, error)

	// Rooms returns a snapshot of the rooms collection keyed by room id.
	Rooms(ctx context.Context) (map[string]Room, error)

	// UpdateUsers applies fn to the users collection under its lock and
	// persists the result atomically.
	UpdateUsers(ctx context.Context, fn func(users map[string]User) error) error

	// UpdateRooms applies fn to the rooms collection under its lock and
	// persists the result atomically.
	UpdateRooms(ctx context.Context, fn func(rooms map[string]Room) error) error

	// Close releases the underlying resources.
	Close() error
}

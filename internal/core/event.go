package core

import "github.com/vovakirdan/pairchat-server/internal/store"

// EventKind tells the transport what to render for the client.
type EventKind int

const (
	// EventMessage delivers a chat message live to a connected recipient.
	EventMessage EventKind = iota
	// EventUserCreated acknowledges a create_user frame.
	EventUserCreated
	// EventRoomCreated acknowledges a create_room frame.
	EventRoomCreated
	// EventMessageSent acknowledges a send_message frame.
	EventMessageSent
	// EventHistory carries the recent messages of a room.
	EventHistory
	// EventError reports a domain error back on the same channel.
	EventError
)

// Event is what the router queues on a client's channel.
type Event struct {
	Kind     EventKind
	RoomID   string
	UserID   string
	Message  *store.Message
	Messages []store.Message
	Error    *Error
}

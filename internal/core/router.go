package core

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/pairchat-server/internal/auth"
	"github.com/vovakirdan/pairchat-server/internal/proto"
	"github.com/vovakirdan/pairchat-server/internal/service/rooms"
	"github.com/vovakirdan/pairchat-server/internal/service/users"
	"github.com/vovakirdan/pairchat-server/internal/store"
)

// Router turns inbound frames into service calls and live deliveries.
// Each frame runs through Received -> Parsed -> Persisted -> Delivered or
// Queued: the message is always persisted first, and pushed to the
// recipient's handle only if one is registered. An offline recipient pulls
// history on its next session instead.
type Router struct {
	users    *users.Service
	rooms    *rooms.Service
	auth     *auth.Service
	registry *Registry
	log      *zerolog.Logger
}

// NewRouter wires the router to its services and the connection registry.
func NewRouter(userService *users.Service, roomService *rooms.Service, authService *auth.Service, registry *Registry, logger *zerolog.Logger) *Router {
	return &Router{
		users:    userService,
		rooms:    roomService,
		auth:     authService,
		registry: registry,
		log:      logger,
	}
}

// HandleFrame processes one raw frame from client and returns the reply
// event for the sender's own channel. Malformed input yields a bad_request
// reply; the connection is never torn down by the router.
func (r *Router) HandleFrame(ctx context.Context, client *Client, raw []byte) *Event {
	var in proto.Inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return badRequest("malformed frame")
	}

	switch in.Type {
	case proto.InboundTypeCreateUser:
		return r.createUser(ctx, in.Data)
	case proto.InboundTypeCreateRoom:
		return r.createRoom(ctx, client, in.Data)
	case proto.InboundTypeSendMessage:
		return r.sendMessage(ctx, client, in.Data)
	case proto.InboundTypeRecentMessages:
		return r.recentMessages(ctx, in.Data)
	default:
		return badRequest("unknown frame type")
	}
}

func (r *Router) createUser(ctx context.Context, data json.RawMessage) *Event {
	var req proto.CreateUserData
	if err := json.Unmarshal(data, &req); err != nil {
		return badRequest("malformed create_user data")
	}
	if req.Username == "" || req.Password == "" {
		return badRequest("username and password are required")
	}

	user, err := r.auth.RegisterUser(ctx, req.Username, req.Password)
	if err != nil {
		return r.errorEvent(err)
	}
	return &Event{Kind: EventUserCreated, UserID: user.ID}
}

func (r *Router) createRoom(ctx context.Context, client *Client, data json.RawMessage) *Event {
	var req proto.CreateRoomData
	if err := json.Unmarshal(data, &req); err != nil {
		return badRequest("malformed create_room data")
	}

	sender := req.SenderID
	if sender == "" {
		sender = client.UserID
	}
	if req.ReceiverID == "" {
		return badRequest("receiver_id is required")
	}

	room, err := r.rooms.Create(ctx, sender, req.ReceiverID)
	if err != nil {
		return r.errorEvent(err)
	}
	return &Event{Kind: EventRoomCreated, RoomID: room.ID}
}

func (r *Router) sendMessage(ctx context.Context, client *Client, data json.RawMessage) *Event {
	var req proto.SendMessageData
	if err := json.Unmarshal(data, &req); err != nil {
		return badRequest("malformed send_message data")
	}
	if req.Message == "" {
		return badRequest("message is required")
	}
	if req.RoomID == "" && req.ReceiverID == "" {
		return badRequest("room_id or receiver_id is required")
	}

	sender := client.UserID
	roomID := req.RoomID
	recipient := req.ReceiverID

	if roomID == "" {
		roomID = rooms.KeyFor(sender, recipient)
		if _, err := r.rooms.Get(ctx, roomID); err != nil {
			if !errors.Is(err, rooms.ErrNotFound) {
				return r.errorEvent(err)
			}
			// Lazy first-contact creation. Losing the insert race to the
			// other side is fine, the canonical key resolves to the same
			// room either way.
			if _, err := r.rooms.Create(ctx, sender, recipient); err != nil && !errors.Is(err, rooms.ErrExists) {
				return r.errorEvent(err)
			}
		}
	}

	timestamp := req.Timestamp
	if timestamp == 0 {
		timestamp = time.Now().Unix()
	}

	msg, err := r.rooms.Append(ctx, roomID, sender, req.Message, timestamp)
	if err != nil {
		return r.errorEvent(err)
	}

	if recipient == "" {
		if room, err := r.rooms.Get(ctx, roomID); err == nil {
			for _, id := range room.Users {
				if id != sender {
					recipient = id
				}
			}
		}
	}
	r.deliver(recipient, roomID, msg)

	return &Event{Kind: EventMessageSent, RoomID: roomID, Message: &msg}
}

func (r *Router) recentMessages(ctx context.Context, data json.RawMessage) *Event {
	var req proto.RecentMessagesData
	if err := json.Unmarshal(data, &req); err != nil {
		return badRequest("malformed get_recent_messages data")
	}
	if req.RoomID == "" {
		return badRequest("room_id is required")
	}

	msgs, err := r.rooms.Recent(ctx, req.RoomID, req.Limit)
	if err != nil {
		return r.errorEvent(err)
	}
	return &Event{Kind: EventHistory, RoomID: req.RoomID, Messages: msgs}
}

// deliver pushes the message to the recipient's live handle if one is
// registered. Best effort: a full queue drops the push and the message
// stays retrievable from the room history.
func (r *Router) deliver(recipient, roomID string, msg store.Message) {
	if recipient == "" {
		return
	}
	peer, ok := r.registry.Lookup(recipient)
	if !ok {
		return
	}
	if !peer.TrySend(&Event{Kind: EventMessage, RoomID: roomID, Message: &msg}) {
		r.log.Warn().
			Str("user_id", recipient).
			Str("room_id", roomID).
			Msg("recipient queue full, live delivery dropped")
	}
}

// errorEvent maps service errors onto the client-facing taxonomy. The exact
// conflict messages are part of the wire contract.
func (r *Router) errorEvent(err error) *Event {
	switch {
	case errors.Is(err, users.ErrUsernameTaken):
		return errorOf(ErrCodeConflict, "This username already exists")
	case errors.Is(err, rooms.ErrExists):
		return errorOf(ErrCodeConflict, "room already exists")
	case errors.Is(err, users.ErrNotFound),
		errors.Is(err, rooms.ErrNotFound),
		errors.Is(err, rooms.ErrUserNotFound):
		return errorOf(ErrCodeNotFound, err.Error())
	case errors.Is(err, rooms.ErrBadPair),
		errors.Is(err, auth.ErrInvalidUsername),
		errors.Is(err, auth.ErrInvalidPassword):
		return errorOf(ErrCodeBadRequest, err.Error())
	case errors.Is(err, store.ErrUnavailable):
		r.log.Error().Err(err).Msg("storage unavailable")
		return errorOf(ErrCodeStorage, "storage unavailable")
	default:
		r.log.Error().Err(err).Msg("unexpected error handling frame")
		return errorOf(ErrCodeStorage, "storage unavailable")
	}
}

func badRequest(msg string) *Event {
	return errorOf(ErrCodeBadRequest, msg)
}

func errorOf(code, msg string) *Event {
	return &Event{Kind: EventError, Error: &Error{Code: code, Message: msg}}
}

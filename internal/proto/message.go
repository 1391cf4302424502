package proto

import "encoding/json"

// Inbound is the envelope for frames coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeCreateUser     = "create_user"
	InboundTypeCreateRoom     = "create_room"
	InboundTypeSendMessage    = "send_message"
	InboundTypeRecentMessages = "get_recent_messages"

	OutboundTypeSuccess = "success"
	OutboundTypeError   = "error"
	OutboundTypeEvent   = "event"

	EventNameMessage = "message"
	EventNameHistory = "history"
)

// CreateUserData registers a new account.
type CreateUserData struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateRoomData requests a room for a pair of users. SenderID may be
// omitted, in which case the authenticated identity is used.
type CreateRoomData struct {
	SenderID   string `json:"sender_id,omitempty"`
	ReceiverID string `json:"receiver_id"`
}

// SendMessageData carries a chat message. Either RoomID or ReceiverID must
// be set; a missing timestamp is filled in server-side.
type SendMessageData struct {
	RoomID     string `json:"room_id,omitempty"`
	ReceiverID string `json:"receiver_id,omitempty"`
	Message    string `json:"message"`
	Timestamp  int64  `json:"timestamp,omitempty"`
}

// RecentMessagesData asks for the tail of a room's message log.
type RecentMessagesData struct {
	RoomID string `json:"room_id"`
	Limit  int    `json:"n,omitempty"`
}

// Outbound is the envelope for frames sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

// MessagePayload mirrors the persisted message shape on the wire.
type MessagePayload struct {
	MessageID string `json:"message_id"`
	RoomID    string `json:"room_id,omitempty"`
	Sender    string `json:"sender"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// CreatedUser acknowledges create_user.
type CreatedUser struct {
	UserID string `json:"user_id"`
}

// CreatedRoom acknowledges create_room.
type CreatedRoom struct {
	RoomID string `json:"room_id"`
}

// SentMessage acknowledges send_message.
type SentMessage struct {
	MessageID string `json:"message_id"`
}

// History carries recent messages in append order, most recent last.
type History struct {
	RoomID   string           `json:"room_id"`
	Messages []MessagePayload `json:"messages"`
}

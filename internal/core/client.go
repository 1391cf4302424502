package core

// eventBuffer bounds the per-connection outbound queue. Pushes beyond it
// are dropped rather than blocking the router.
const eventBuffer = 16

// Client is a live connection handle as seen by the core layer. ID is
// unique per socket, so two connections of the same user remain
// distinguishable.
type Client struct {
	ID       string
	UserID   string
	Username string
	Events   chan *Event
}

// NewClient constructs a connection handle with its event queue.
func NewClient(id, userID, username string) *Client {
	return &Client{
		ID:       id,
		UserID:   userID,
		Username: username,
		Events:   make(chan *Event, eventBuffer),
	}
}

// TrySend queues an event without blocking. Reports whether the event was
// accepted; a full queue drops it.
func (c *Client) TrySend(ev *Event) bool {
	select {
	case c.Events <- ev:
		return true
	default:
		return false
	}
}

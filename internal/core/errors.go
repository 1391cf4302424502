package core

// Error codes surfaced to clients.
const (
	ErrCodeNotFound   = "not_found"
	ErrCodeConflict   = "conflict"
	ErrCodeBadRequest = "bad_request"
	ErrCodeStorage    = "storage_unavailable"
)

// Error pairs a machine-readable code with the message sent back to the
// client on its own channel.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

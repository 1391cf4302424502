package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/pairchat-server/internal/proto"
	"github.com/vovakirdan/pairchat-server/internal/service/rooms"
)

// RoomHandlers provides HTTP handlers for room operations.
type RoomHandlers struct {
	rooms *rooms.Service
	log   *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(roomService *rooms.Service, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		rooms: roomService,
		log:   logger,
	}
}

// CreateRoomRequest is the body for POST /api/rooms.
type CreateRoomRequest struct {
	ReceiverID string `json:"receiver_id" binding:"required"`
}

// CreateRoom handles POST /api/rooms: opens the room between the
// authenticated user and the receiver.
func (h *RoomHandlers) CreateRoom(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "receiver_id is required"})
		return
	}

	room, err := h.rooms.Create(c.Request.Context(), userID, req.ReceiverID)
	if err != nil {
		switch {
		case errors.Is(err, rooms.ErrExists):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "room already exists"})
		case errors.Is(err, rooms.ErrUserNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		case errors.Is(err, rooms.ErrBadPair):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			h.log.Error().Err(err).Msg("create room failed")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, proto.CreatedRoom{RoomID: room.ID})
}

// RecentMessages handles GET /api/rooms/:id/messages?n=20.
func (h *RoomHandlers) RecentMessages(c *gin.Context) {
	roomID := c.Param("id")

	limit := 0
	if raw := c.Query("n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "n must be an integer"})
			return
		}
		limit = n
	}

	msgs, err := h.rooms.Recent(c.Request.Context(), roomID, limit)
	if err != nil {
		if errors.Is(err, rooms.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
			return
		}
		h.log.Error().Err(err).Str("room_id", roomID).Msg("recent messages failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	payload := make([]proto.MessagePayload, 0, len(msgs))
	for _, m := range msgs {
		payload = append(payload, proto.MessagePayload{
			MessageID: m.ID,
			Sender:    m.Sender,
			Message:   m.Body,
			Timestamp: m.Timestamp,
		})
	}
	c.JSON(http.StatusOK, payload)
}

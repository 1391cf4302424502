package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/pairchat-server/internal/auth"
	"github.com/vovakirdan/pairchat-server/internal/core"
)

// WSHandler upgrades HTTP connections and bridges them to the core router.
// Each connection is one core.Client: the read loop feeds frames to the
// router, the write loop drains the client's event queue.
type WSHandler struct {
	router   *core.Router
	registry *core.Registry
	auth     *auth.Service
	log      *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(router *core.Router, registry *core.Registry, authService *auth.Service, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{
		router:   router,
		registry: registry,
		auth:     authService,
		log:      logger,
	}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	claims, err := h.authenticate(r)
	if err != nil {
		h.log.Debug().Err(err).Msg("ws auth rejected")
		stdhttp.Error(w, "invalid token", stdhttp.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	client := core.NewClient(uuid.NewString(), claims.UserID, claims.Username)
	if prev := h.registry.Register(client); prev != nil {
		// The new connection supersedes the old mapping. The old socket is
		// left to shut down on its own disconnect.
		h.log.Info().
			Str("user_id", client.UserID).
			Str("superseded_conn", prev.ID).
			Msg("connection superseded")
	}
	defer h.registry.Unregister(client)

	h.log.Debug().Str("user_id", client.UserID).Str("conn_id", client.ID).Msg("client connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("user_id", client.UserID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

// authenticate resolves the connection identity from the token query
// parameter or the Authorization header.
func (h *WSHandler) authenticate(r *stdhttp.Request) (*auth.Claims, error) {
	token := r.URL.Query().Get("token")
	if token == "" {
		header := r.Header.Get("Authorization")
		token = strings.TrimPrefix(header, "Bearer ")
		if token == header {
			token = ""
		}
	}
	if token == "" {
		return nil, errors.New("missing token")
	}
	return h.auth.ValidateToken(token)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		_, raw, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		// Replies go through the client's own queue so the write loop is
		// the single writer on this socket.
		if ev := h.router.HandleFrame(ctx, client, raw); ev != nil {
			if !client.TrySend(ev) {
				h.log.Warn().Str("user_id", client.UserID).Msg("reply dropped, client queue full")
			}
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Error().Err(err).Str("user_id", client.UserID).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/pairchat-server/internal/auth"
	"github.com/vovakirdan/pairchat-server/internal/config"
	"github.com/vovakirdan/pairchat-server/internal/core"
	"github.com/vovakirdan/pairchat-server/internal/service/rooms"
)

// NewServer builds the HTTP server: REST endpoints for account management
// plus the WebSocket endpoint carrying the chat frame protocol.
func NewServer(cfg *config.Config, router *core.Router, registry *core.Registry, authService *auth.Service, roomService *rooms.Service, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery(), LoggerMiddleware(logger))

	engine.GET("/healthz", healthHandler)

	authHandlers := NewAuthHandlers(authService, logger)
	api := engine.Group("/api")
	api.POST("/register", authHandlers.Register)
	api.POST("/login", authHandlers.Login)

	roomHandlers := NewRoomHandlers(roomService, logger)
	protected := api.Group("", AuthMiddleware(authService, logger))
	protected.POST("/rooms", roomHandlers.CreateRoom)
	protected.GET("/rooms/:id/messages", roomHandlers.RecentMessages)

	engine.GET("/ws", gin.WrapH(NewWSHandler(router, registry, authService, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           engine,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}

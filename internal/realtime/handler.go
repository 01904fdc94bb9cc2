package realtime

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/richxcame/localeflow/pkg/common"
	"github.com/richxcame/localeflow/pkg/middleware"
	ws "github.com/richxcame/localeflow/pkg/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// Browser clients connect from the studio frontend on a
		// different origin. Auth happens in middleware, not here.
		return true
	},
}

// Handler upgrades HTTP connections into hub clients
type Handler struct {
	hub    *ws.Hub
	logger *zap.Logger
}

// NewHandler creates the websocket handler
func NewHandler(hub *ws.Hub, logger *zap.Logger) *Handler {
	return &Handler{hub: hub, logger: logger}
}

// RegisterRoutes wires the websocket endpoints. The group must carry the
// auth middleware; it accepts the token via the query string for
// browser websocket clients.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/ws", h.Connect)
	r.GET("/ws/stats", h.Stats)
}

// Connect upgrades the request and runs the client pumps
func (h *Handler) Connect(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	role := middleware.GetUserRole(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := ws.NewClient(userID.String(), conn, h.hub, role, h.logger)
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}

// Stats reports connection counts for the collaboration hub
func (h *Handler) Stats(c *gin.Context) {
	common.SuccessResponse(c, gin.H{
		"connected_clients": h.hub.GetClientCount(),
		"active_projects":   h.hub.GetProjectCount(),
	})
}

package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"stickywith_backend/internal/logger"
	"stickywith_backend/internal/middleware"
	"stickywith_backend/internal/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: restrict origin once the frontend domain is fixed
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type WebSocketHandler struct {
	Manager             *WebSocketManager
	NotificationService services.NotificationService
}

func NewWebSocketHandler(manager *WebSocketManager, notificationService services.NotificationService) *WebSocketHandler {
	return &WebSocketHandler{
		Manager:             manager,
		NotificationService: notificationService,
	}
}

// ServeWS upgrades an authenticated request to a websocket connection. The
// route must sit behind the auth middleware.
func (h *WebSocketHandler) ServeWS(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("ws upgrade error", "user_id", userID, "error", err)
		return
	}

	client := &Client{
		UserID:              userID,
		Conn:                conn,
		Send:                make(chan any, sendBufferSize),
		Manager:             h.Manager,
		NotificationService: h.NotificationService,
	}

	h.Manager.register <- client

	go client.readPump()
	go client.writePump()
}

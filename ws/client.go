package ws

import (
	"encoding/json"

	"github.com/gorilla/websocket"

	"stickywith_backend/internal/logger"
	"stickywith_backend/internal/services"
)

const sendBufferSize = 16

type IncomingWSMessage struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan any

	Manager             *WebSocketManager
	NotificationService services.NotificationService
}

func (c *Client) readPump() {
	defer func() {
		c.Manager.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, msgBytes, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("ws read error", "user_id", c.UserID, "error", err)
			}
			break
		}

		var msg IncomingWSMessage
		if err := json.Unmarshal(msgBytes, &msg); err != nil {
			logger.Warn("ws invalid message", "user_id", c.UserID, "error", err)
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	for msg := range c.Send {
		if err := c.Conn.WriteJSON(msg); err != nil {
			logger.Warn("ws write error", "user_id", c.UserID, "error", err)
			break
		}
	}
	c.Conn.Close()
}

func (c *Client) handleMessage(msg IncomingWSMessage) {
	switch msg.Action {

	case "mark_read":
		var payload struct {
			NotificationID string `json:"notification_id"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil || payload.NotificationID == "" {
			logger.Warn("ws invalid mark_read payload", "user_id", c.UserID)
			return
		}
		if err := c.NotificationService.MarkAsRead(c.UserID, payload.NotificationID); err != nil {
			logger.Warn("ws mark_read failed", "user_id", c.UserID, "error", err)
		}

	case "mark_all_read":
		if err := c.NotificationService.MarkAllAsRead(c.UserID); err != nil {
			logger.Warn("ws mark_all_read failed", "user_id", c.UserID, "error", err)
		}

	default:
		logger.Debug("ws unknown action", "user_id", c.UserID, "action", msg.Action)
	}
}

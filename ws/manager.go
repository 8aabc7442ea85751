package ws

import (
	"sync"

	"stickywith_backend/internal/logger"
)

// WebSocketManager tracks one live connection per user. It implements the
// notification dispatcher's live-push contract: Push delivers to the user's
// open socket, or reports false so the caller falls back to polling.
type WebSocketManager struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (manager *WebSocketManager) Run() {
	for {
		select {
		case client := <-manager.register:
			manager.mu.Lock()
			// a second connection for the same user replaces the first
			if old, ok := manager.clients[client.UserID]; ok {
				close(old.Send)
				old.Conn.Close()
			}
			manager.clients[client.UserID] = client
			manager.mu.Unlock()
			logger.Debug("ws client registered", "user_id", client.UserID, "total", manager.ClientCount())

		case client := <-manager.unregister:
			manager.mu.Lock()
			if current, ok := manager.clients[client.UserID]; ok && current == client {
				close(client.Send)
				delete(manager.clients, client.UserID)
			}
			manager.mu.Unlock()
			logger.Debug("ws client unregistered", "user_id", client.UserID, "total", manager.ClientCount())
		}
	}
}

// Push sends payload to the user's connection if one is open. A full send
// buffer counts as a dead connection and evicts the client.
func (manager *WebSocketManager) Push(userID string, payload any) bool {
	manager.mu.RLock()
	client, ok := manager.clients[userID]
	manager.mu.RUnlock()
	if !ok {
		return false
	}

	select {
	case client.Send <- payload:
		return true
	default:
		go func() {
			manager.unregister <- client
		}()
		logger.Warn("ws client evicted, send buffer full", "user_id", userID)
		return false
	}
}

func (manager *WebSocketManager) ClientCount() int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return len(manager.clients)
}

func (manager *WebSocketManager) IsConnected(userID string) bool {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	_, exists := manager.clients[userID]
	return exists
}

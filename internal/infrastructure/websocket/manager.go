package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"printlab/pkg/logger"
)

// StatusEvent is pushed to connected clients whenever an asset changes
// lifecycle status.
type StatusEvent struct {
	AssetID   string    `json:"asset_id"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Client represents a WebSocket connection client
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
}

// Manager manages all active WebSocket connections
type Manager struct {
	clients    map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	broadcast  chan []byte
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		broadcast:  make(chan []byte, 16),
	}
}

// Start runs the manager's main loop in a goroutine
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				m.clients[client.ID] = client
				m.mutex.Unlock()
				logger.Debug("Status client registered: %s", client.ID)

			case client := <-m.Unregister:
				m.mutex.Lock()
				if _, ok := m.clients[client.ID]; ok {
					delete(m.clients, client.ID)
					close(client.Send)
				}
				m.mutex.Unlock()
				logger.Debug("Status client unregistered: %s", client.ID)

			case message := <-m.broadcast:
				m.mutex.Lock()
				for id, client := range m.clients {
					select {
					case client.Send <- message:
					default:
						close(client.Send)
						delete(m.clients, id)
					}
				}
				m.mutex.Unlock()

			case <-ctx.Done():
				return
			}
		}
	}()
}

// PublishStatus broadcasts an asset status transition to all clients.
func (m *Manager) PublishStatus(assetID, status string) {
	event := StatusEvent{
		AssetID:   assetID,
		Status:    status,
		Timestamp: time.Now().UTC(),
	}
	message, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to encode status event: %v", err)
		return
	}

	select {
	case m.broadcast <- message:
	default:
		logger.Warn("Status broadcast channel full, dropping event for %s", assetID)
	}
}

// ReadPump drains messages from the connection until it closes
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("websocket read error: %v", err)
			}
			break
		}
	}
}

// WritePump sends queued events to the connection
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		message, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			logger.Error("websocket write error: %v", err)
			return
		}
	}
}

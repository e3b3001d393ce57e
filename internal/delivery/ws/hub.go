package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/newsroom/internal/metrics"
	"github.com/gorilla/websocket"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = pongWait * 9 / 10

	// sendBuffer is how many messages may queue for one connection before
	// it is treated as stalled and dropped.
	sendBuffer = 32
)

// UserRoom is the room every connection of a user joins.
func UserRoom(userID string) string {
	return "user:" + userID
}

// Client is one registered connection. Only its writer goroutine touches
// the socket for writing.
type Client struct {
	conn *websocket.Conn
	send chan []byte

	// guarded by Hub.mu
	closed bool
}

type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
	log   *logger.ZapLogger
}

func NewHub(log *logger.ZapLogger) *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]struct{}),
		log:   log,
	}
}

// Register joins conn to a room and starts its writer.
func (h *Hub) Register(roomID string, conn *websocket.Conn) *Client {
	c := &Client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]struct{})
	}
	h.rooms[roomID][c] = struct{}{}
	h.mu.Unlock()

	metrics.WebsocketConnections.Inc()
	go h.writeLoop(roomID, c)
	return c
}

// Unregister is safe to call more than once for the same client.
func (h *Hub) Unregister(roomID string, c *Client) {
	h.mu.Lock()
	if c.closed {
		h.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	if room, ok := h.rooms[roomID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, roomID)
		}
	}
	h.mu.Unlock()

	metrics.WebsocketConnections.Dec()
	_ = c.conn.Close()
}

// Count returns the number of live connections in a room.
func (h *Hub) Count(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// Send queues msg for one client without blocking. It reports false when
// the client is gone or its queue is full.
func (h *Hub) Send(c *Client, msg []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.enqueue(c, msg)
}

// enqueue requires h.mu held.
func (h *Hub) enqueue(c *Client, msg []byte) bool {
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// SendToRoom never blocks on a slow socket; clients whose queue is full
// are disconnected.
func (h *Hub) SendToRoom(roomID string, msg []byte) {
	var stalled []*Client

	h.mu.RLock()
	for c := range h.rooms[roomID] {
		if !h.enqueue(c, msg) {
			stalled = append(stalled, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stalled {
		h.log.Log(logger.LogEntry{
			Level:   "warn",
			Message: "ws send queue full, dropping connection",
			Fields:  map[string]any{"room": roomID},
		})
		h.Unregister(roomID, c)
	}
}

// PushToUser delivers a payload to every open connection of the user.
func (h *Hub) PushToUser(userID string, payload []byte) {
	h.SendToRoom(UserRoom(userID), payload)
}

func (h *Hub) writeLoop(roomID string, c *Client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := write(c.conn, websocket.TextMessage, msg); err != nil {
				h.log.Log(logger.LogEntry{
					Level:   "debug",
					Message: "ws write failed",
					Fields:  map[string]any{"room": roomID},
					Error:   err,
				})
				h.Unregister(roomID, c)
				return
			}
		case <-ticker.C:
			if err := write(c.conn, websocket.PingMessage, nil); err != nil {
				h.Unregister(roomID, c)
				return
			}
		}
	}
}

func write(conn *websocket.Conn, msgType int, data []byte) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(msgType, data)
}

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

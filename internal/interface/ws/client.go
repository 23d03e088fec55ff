package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/expertlink/api/internal/domain/entity"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
	sendBuffer     = 32
)

// Conn is one live channel. sock is nil for channels created directly
// in tests; trySend then only feeds the send buffer.
type Conn struct {
	id   string
	sock *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

func newConn(sock *websocket.Conn) *Conn {
	return &Conn{id: uuid.NewString(), sock: sock, send: make(chan []byte, sendBuffer)}
}

// trySend queues a frame without blocking; full buffers and closed
// channels drop. Pushes race with teardown, hence the guard.
func (c *Conn) trySend(payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

func (c *Conn) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect cross-origin from the SPA dev server.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Serve upgrades the request and runs the connection until it closes.
func (h *Hub) Serve(c *gin.Context) {
	sock, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.WithError(err).Warn("websocket upgrade failed")
		}
		return
	}
	conn := newConn(sock)
	go conn.writePump()
	conn.readPump(h)
}

func (c *Conn) readPump(h *Hub) {
	defer func() {
		h.Leave(c)
		c.closeSend()
		_ = c.sock.Close()
	}()
	c.sock.SetReadLimit(maxMessageSize)
	_ = c.sock.SetReadDeadline(time.Now().Add(pongWait))
	c.sock.SetPongHandler(func(string) error {
		return c.sock.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.sock.ReadMessage()
		if err != nil {
			return
		}
		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			continue
		}
		h.handle(c, ev)
	}
}

func (h *Hub) handle(c *Conn, ev Event) {
	switch ev.Event {
	case EventJoin:
		var email string
		if err := json.Unmarshal(ev.Data, &email); err != nil || email == "" {
			return
		}
		h.Join(email, c)
	case EventSendMessage:
		var m entity.Message
		if err := json.Unmarshal(ev.Data, &m); err != nil {
			return
		}
		h.relay(c, m)
	}
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.sock.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			_ = c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.sock.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.sock.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.sock.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

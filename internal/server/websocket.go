package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/epdwave/internal/logging"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum request size allowed from peer
	maxMessageSize = 4096

	// Outgoing messages buffered per client before it is dropped
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1 << 16,
	// Read-only data, so any origin may subscribe
	CheckOrigin: func(r *http.Request) bool { return true },
}

// client is one WebSocket subscriber
type client struct {
	conn       *websocket.Conn
	remoteAddr string
	send       chan *Message
	done       chan struct{}
	closeOnce  sync.Once
}

func (c *client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// push queues msg without blocking; false means the client is gone or full
func (c *client) push(msg *Message) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// hub tracks subscribers and fans out pushed documents
type hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
	workers sync.WaitGroup // Pump goroutines of registered clients
}

func newHub() *hub {
	return &hub{clients: make(map[*client]struct{})}
}

// add registers c and reserves workers pump slots on the hub's wait group.
// It fails once closeAll has run, so no slot is taken after shutdown waits.
func (h *hub) add(c *client, workers int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	h.workers.Add(workers)
	return true
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// broadcast queues msg for every client, dropping clients that cannot keep up
func (h *hub) broadcast(msg *Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		if !c.push(msg) {
			logging.Warn("Dropping slow WebSocket client", zap.String("remote_addr", c.remoteAddr))
			delete(h.clients, c)
			c.close()
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
}

// handleWebSocket upgrades the request and serves one subscriber
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		logging.Debug("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	c := &client{
		conn:       conn,
		remoteAddr: r.RemoteAddr,
		send:       make(chan *Message, sendBuffer),
		done:       make(chan struct{}),
	}
	if !s.hub.add(c, 2) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	logging.LogConnection(c.remoteAddr, "websocket_opened")

	// Every subscriber starts with the current document
	c.send <- documentMessage(s.Document())

	go func() {
		defer s.hub.workers.Done()
		s.writePump(c)
	}()
	go func() {
		defer s.hub.workers.Done()
		s.readPump(c)
	}()
}

// readPump answers requests until the peer goes away
func (s *Server) readPump(c *client) {
	defer func() {
		s.hub.remove(c)
		logging.LogConnection(c.remoteAddr, "websocket_closed")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var req Request
		if err := c.conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Info("WebSocket read error",
					zap.String("remote_addr", c.remoteAddr),
					zap.Error(err),
				)
			}
			return
		}

		logging.Debug("WebSocket request",
			zap.String("remote_addr", c.remoteAddr),
			zap.String("type", req.Type),
		)

		if !c.push(s.answer(&req)) {
			return
		}
	}
}

// writePump serializes writes and keeps the connection alive with pings
func (s *Server) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return

		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				logging.Debug("WebSocket write failed",
					zap.String("remote_addr", c.remoteAddr),
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

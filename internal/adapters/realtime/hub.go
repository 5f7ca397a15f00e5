package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 32
)

// Frame is one rendered view pushed to browsers.
type Frame struct {
	View string          `json:"view"`
	Data json.RawMessage `json:"data"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub is a ViewSurface that fans frames out to WebSocket clients.
// The latest frame of each view is replayed to clients as they connect.
// Publish never blocks: a client whose buffer is full is disconnected.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*client
	last    map[string][]byte
	order   []string
	closed  bool

	upgrader websocket.Upgrader
	log      logrus.FieldLogger
}

func NewHub(log logrus.FieldLogger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{
		clients: make(map[string]*client),
		last:    make(map[string][]byte),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log.WithField("component", "hub"),
	}
}

func (h *Hub) Publish(view string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.WithError(err).WithField("view", view).Error("encode view payload")
		return
	}
	msg, err := json.Marshal(Frame{View: view, Data: data})
	if err != nil {
		h.log.WithError(err).WithField("view", view).Error("encode frame")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, seen := h.last[view]; !seen {
		h.order = append(h.order, view)
	}
	h.last[view] = msg

	for id, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.log.WithField("client_id", id).Warn("client too slow; disconnecting")
			h.dropLocked(id)
		}
	}
}

// Last returns the most recent encoded frame for view.
func (h *Hub) Last(view string) ([]byte, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	b, ok := h.last[view]
	return b, ok
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.clients)
}

// ServeWS upgrades the request and streams frames until the peer goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBufferSize+len(h.order)),
	}
	for _, view := range h.order {
		c.send <- h.last[view]
	}
	h.clients[c.id] = c
	h.mu.Unlock()

	h.log.WithField("client_id", c.id).Debug("client connected")

	go h.writePump(c)
	h.readPump(c)
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for id := range h.clients {
		h.dropLocked(id)
	}
}

// dropLocked must be called with mu held; only the remover closes send.
func (h *Hub) dropLocked(id string) {
	c, ok := h.clients[id]
	if !ok {
		return
	}
	delete(h.clients, id)
	close(c.send)
}

func (h *Hub) drop(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(id)
}

// readPump discards client messages; it exists to process pongs and notice
// disconnects.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.drop(c.id)
		_ = c.conn.Close()
		h.log.WithField("client_id", c.id).Debug("client disconnected")
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

package notify

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/blockfall/internal/tetris"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512

	// DefaultSendBuffer is the per-client queue length before a client is
	// considered too slow and dropped.
	DefaultSendBuffer = 256
)

// Message is the wire format of every websocket frame.
type Message struct {
	Event   tetris.Channel `json:"event"`
	Payload any            `json:"payload"`
}

// HubOptions configures a Hub.
type HubOptions struct {
	// CheckOrigin validates the Origin header of upgrade requests.
	// Nil accepts every origin.
	CheckOrigin func(*http.Request) bool

	// SendBuffer is the per-client queue length. Zero uses DefaultSendBuffer.
	SendBuffer int

	Logger *log.Logger
}

// Hub broadcasts engine events to websocket observers. Emitting never
// blocks on the network: a client whose queue is full is disconnected.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*client
	connect func(join func(Message))
	closed  bool

	upgrader   websocket.Upgrader
	sendBuffer int
	logger     *log.Logger
}

type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

// safeSend queues msg without blocking. It fails if the client is closed
// or its queue is full.
func (c *client) safeSend(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

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

func (c *client) safeClose() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		close(c.send)
		c.closed = true
	}
}

// NewHub creates a hub with no clients.
func NewHub(opts HubOptions) *Hub {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = DefaultSendBuffer
	}
	checkOrigin := opts.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Hub{
		clients: make(map[uuid.UUID]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		sendBuffer: opts.SendBuffer,
		logger:     opts.Logger,
	}
}

// OnConnect sets a hook that runs for every new client. The hook must call
// join once with the client's first message: join registers the client and
// queues the message under the hub lock, so no broadcast reaches the client
// ahead of it. A client whose hook never calls join is disconnected.
func (h *Hub) OnConnect(fn func(join func(Message))) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connect = fn
}

// ServeHTTP upgrades the request and streams events to the connection until
// the client goes away. Incoming frames are read and discarded.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		h.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := &client{
		id:   uuid.New(),
		conn: conn,
		send: make(chan []byte, h.sendBuffer),
	}

	registered := false
	if hook := h.connectHook(); hook != nil {
		hook(func(greeting Message) {
			if !registered {
				registered = h.register(c, &greeting)
			}
		})
	} else {
		registered = h.register(c, nil)
	}
	if !registered {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		return
	}
	h.logger.Info("observer connected", "id", c.id, "remote", r.RemoteAddr)

	go c.writePump(h.logger)
	c.readPump()
	h.unregister(c.id)
	h.logger.Info("observer disconnected", "id", c.id)
}

func (h *Hub) connectHook() func(join func(Message)) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.connect
}

// register adds c and queues greeting, if any, as its first message.
func (h *Hub) register(c *client, greeting *Message) bool {
	var data []byte
	if greeting != nil {
		var err error
		if data, err = json.Marshal(greeting); err != nil {
			h.logger.Error("cannot encode greeting", "error", err)
			data = nil
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	if data != nil {
		c.safeSend(data)
	}
	h.clients[c.id] = c
	return true
}

func (h *Hub) unregister(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		c.safeClose()
		delete(h.clients, id)
	}
}

// Clients returns the number of connected observers.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, c := range h.clients {
		c.safeClose()
		delete(h.clients, id)
	}
}

func (h *Hub) EmitPiece(ch tetris.Channel, p tetris.PieceView) error {
	return h.Broadcast(ch, p)
}

func (h *Hub) EmitBoard(ch tetris.Channel, rows []string) error {
	return h.Broadcast(ch, rows)
}

func (h *Hub) EmitNumber(ch tetris.Channel, v int) error {
	return h.Broadcast(ch, v)
}

func (h *Hub) EmitString(ch tetris.Channel, v string) error {
	return h.Broadcast(ch, v)
}

// Broadcast sends one event to every client. Only an encoding failure is
// reported; slow clients are dropped.
func (h *Hub) Broadcast(ch tetris.Channel, payload any) error {
	data, err := json.Marshal(Message{Event: ch, Payload: payload})
	if err != nil {
		return fmt.Errorf("notify: encode %s: %w", ch, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		if !c.safeSend(data) {
			h.logger.Warn("dropping slow observer", "id", id)
			c.safeClose()
			delete(h.clients, id)
		}
	}
	return nil
}

// readPump keeps the read deadline alive and returns when the peer is gone.
func (c *client) readPump() {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump drains the send queue into the connection and pings the peer.
func (c *client) writePump(logger *log.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("observer write failed", "id", c.id, "error", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

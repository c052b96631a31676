package transport

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	ws "github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	DefaultQueueSize = 64
	writeWait        = 2 * time.Second
)

// Hub broadcasts frames as JSON to WebSocket viewers. Each client has its
// own write goroutine and bounded queue; frames for a full queue are
// dropped so a slow viewer never stalls the simulation.
type Hub struct {
	upgrader  ws.Upgrader
	queueSize int
	logger    *zap.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool

	dropped atomic.Int64
}

type client struct {
	conn   *ws.Conn
	sendCh chan []byte
	once   sync.Once
}

func NewHub(queueSize int, logger *zap.Logger) *Hub {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Hub{
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		queueSize: queueSize,
		logger:    logger,
		clients:   make(map[*client]struct{}),
	}
}

// Handler serves the feed at /ws.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	return mux
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}

	c := &client{conn: conn, sendCh: make(chan []byte, h.queueSize)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("viewer connected", zap.String("remote", r.RemoteAddr), zap.Int("viewers", n))

	go h.writeLoop(c)
	h.readLoop(c)
}

// readLoop discards incoming messages and notices when the viewer leaves.
func (h *Hub) readLoop(c *client) {
	defer h.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for data := range c.sendCh {
		if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			h.remove(c)
			return
		}
		if err := c.conn.WriteMessage(ws.TextMessage, data); err != nil {
			h.logger.Debug("websocket write", zap.Error(err))
			h.remove(c)
			return
		}
	}
	_ = c.conn.WriteControl(ws.CloseMessage,
		ws.FormatCloseMessage(ws.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	c.once.Do(func() { close(c.sendCh) })
}

// Send queues f for every connected viewer.
func (h *Hub) Send(f Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.sendCh <- data:
		default:
			h.dropped.Add(1)
		}
	}
	return nil
}

// Clients is the number of connected viewers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Dropped is the number of frames discarded for slow viewers.
func (h *Hub) Dropped() int64 { return h.dropped.Load() }

// Close disconnects every viewer and refuses new ones.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		c.once.Do(func() { close(c.sendCh) })
	}
	return nil
}

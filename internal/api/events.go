package api

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/terra-clan/skillsprint/internal/models"
	"github.com/terra-clan/skillsprint/internal/store"
)

const (
	eventBuffer  = 32
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 50 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// FeedMessage is one frame sent to event feed clients
type FeedMessage struct {
	Type  string       `json:"type"`
	Event *store.Event `json:"event,omitempty"`
	Data  string       `json:"data,omitempty"`
}

// Hub fans store events out to websocket clients. Learners receive events
// about themselves, companies receive events about their enrollments.
type Hub struct {
	mu          sync.RWMutex
	clients     map[*feedClient]struct{}
	unsubscribe func()
	closed      bool
}

type feedClient struct {
	identity *models.Identity
	send     chan store.Event
	done     chan struct{}
	once     sync.Once
}

func (c *feedClient) stop() {
	c.once.Do(func() { close(c.done) })
}

// wants reports whether the event concerns this client
func (c *feedClient) wants(ev store.Event) bool {
	if c.identity.IsCompany() {
		return ev.CompanyID == c.identity.ID
	}
	return ev.LearnerID == c.identity.ID
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{clients: make(map[*feedClient]struct{})}
}

// Attach subscribes the hub to a store's events
func (h *Hub) Attach(st *store.Store) {
	h.unsubscribe = st.Subscribe(h.Broadcast)
}

// Broadcast queues ev for every interested client. Slow clients drop events
// rather than block the publisher.
func (h *Hub) Broadcast(ev store.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		if !c.wants(ev) {
			continue
		}
		select {
		case c.send <- ev:
		default:
			slog.Warn("event feed client lagging, dropping event",
				"caller", c.identity.Key(),
				"type", ev.Type,
			)
		}
	}
}

func (h *Hub) register(c *feedClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *feedClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.stop()
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close detaches from the store and disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	if h.unsubscribe != nil {
		h.unsubscribe()
	}
	for c := range h.clients {
		c.stop()
	}
}

func (s *Server) handleEventsWS(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	client := &feedClient{
		identity: identity,
		send:     make(chan store.Event, eventBuffer),
		done:     make(chan struct{}),
	}
	if !s.hub.register(client) {
		sendFeedMessage(conn, FeedMessage{Type: "error", Data: "server shutting down"})
		return
	}
	defer s.hub.unregister(client)

	slog.Info("event feed connected", "caller", identity.Key())

	if err := sendFeedMessage(conn, FeedMessage{Type: "connected", Data: identity.Key()}); err != nil {
		return
	}

	var wg sync.WaitGroup

	// Read from WebSocket: only control frames are expected
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer client.stop()

		conn.SetReadDeadline(time.Now().Add(pongTimeout))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongTimeout))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					slog.Debug("websocket read error", "error", err)
				}
				return
			}
		}
	}()

	// Events -> WebSocket
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-client.done:
			break loop
		case ev := <-client.send:
			if err := sendFeedMessage(conn, FeedMessage{Type: "event", Event: &ev}); err != nil {
				break loop
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				break loop
			}
		}
	}

	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	conn.Close()
	wg.Wait()

	slog.Info("event feed disconnected", "caller", identity.Key())
}

func sendFeedMessage(conn *websocket.Conn, msg FeedMessage) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		slog.Debug("failed to send feed message", "error", err)
		return err
	}
	return nil
}

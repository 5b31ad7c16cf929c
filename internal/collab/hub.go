package collab

import (
	"log/slog"
	"sync"

	"github.com/inkboard/inkboard/internal/engine"
)

// Hub tracks live clients and their sessions. Every client has its own
// session; nothing is shared between connections.
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]*Client // sessionID -> client
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	stopOnce   sync.Once
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.stop:
			return
		}
	}
}

// Stop ends Run. Later Register and Unregister calls return immediately.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.stop:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stop:
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client.Session.ID] = client
	h.mu.Unlock()

	client.sendWelcome()

	slog.Info("client joined", "client", client.ClientID, "session", client.Session.ID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if cur, ok := h.clients[client.Session.ID]; ok && cur == client {
		delete(h.clients, client.Session.ID)
	}
	h.mu.Unlock()

	slog.Info("client left", "client", client.ClientID, "session", client.Session.ID)
}

// Lookup returns the live session with the given id.
func (h *Hub) Lookup(sessionID string) (*Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[sessionID]
	if !ok {
		return nil, false
	}
	return c.Session, true
}

// LatestFrame returns the newest frame rendered by a live session.
func (h *Hub) LatestFrame(sessionID string) (*engine.Frame, bool) {
	s, ok := h.Lookup(sessionID)
	if !ok {
		return nil, false
	}
	return s.LatestFrame()
}

// Len returns the number of live sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

package live

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/psidex/zkgraph/internal/lib"
	"github.com/psidex/zkgraph/internal/view"
)

// Hub fans handle events out to websocket clients.
type Hub struct {
	handle       *view.Handle
	log          *slog.Logger
	writeTimeout time.Duration
	cancel       func()

	// mu also orders the initial reset before any broadcast to a new client.
	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

type client struct {
	ws   lib.ThreadSafeWebSocket
	addr string
}

// NewHub subscribes to h. Call Close to unsubscribe and disconnect clients.
func NewHub(h *view.Handle, log *slog.Logger, writeTimeout time.Duration) *Hub {
	hub := &Hub{
		handle:       h,
		log:          log,
		writeTimeout: writeTimeout,
		clients:      make(map[*client]struct{}),
	}
	hub.cancel = h.Subscribe(hub.broadcast)
	return hub
}

// Clients returns the number of connected clients.
func (hub *Hub) Clients() int {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	return len(hub.clients)
}

// Serve sends the current dataset to c and keeps it registered until the peer
// goes away. Anything the client sends is ignored.
func (hub *Hub) Serve(c *websocket.Conn) {
	cl := &client{
		ws:   lib.NewThreadSafeWebSocket(c, hub.writeTimeout),
		addr: c.RemoteAddr().String(),
	}
	defer cl.ws.Close()

	hub.mu.Lock()
	if hub.closed {
		hub.mu.Unlock()
		return
	}
	if err := cl.ws.WriteJSON(resetMessage(hub.handle.Elements())); err != nil {
		hub.mu.Unlock()
		hub.log.Warn("initial reset failed", "client", cl.addr, "err", err)
		return
	}
	hub.clients[cl] = struct{}{}
	hub.mu.Unlock()
	hub.log.Debug("client connected", "client", cl.addr)

	for {
		if _, _, err := cl.ws.ReadMessage(); err != nil {
			break
		}
	}

	hub.drop(cl)
	hub.log.Debug("client disconnected", "client", cl.addr)
}

func (hub *Hub) broadcast(ev view.Event) {
	msg := messageFor(ev)

	hub.mu.Lock()
	defer hub.mu.Unlock()
	for cl := range hub.clients {
		if err := cl.ws.WriteJSON(msg); err != nil {
			hub.log.Warn("dropping client", "client", cl.addr, "err", err)
			delete(hub.clients, cl)
			_ = cl.ws.Close()
		}
	}
}

func (hub *Hub) drop(cl *client) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	delete(hub.clients, cl)
}

// Close unsubscribes from the handle and disconnects every client.
func (hub *Hub) Close() {
	hub.cancel()

	hub.mu.Lock()
	defer hub.mu.Unlock()
	hub.closed = true
	for cl := range hub.clients {
		_ = cl.ws.Close()
		delete(hub.clients, cl)
	}
}

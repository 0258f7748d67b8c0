package status

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ytget/ytmp3/internal/model"
)

// Hub settings
const (
	HubBufferSize   = 64
	HubReadTimeout  = 60 * time.Second
	HubWriteTimeout = 10 * time.Second
)

// Hub broadcasts status events as JSON to every connected websocket client.
// The latest status message of each job kind is replayed to new clients.
type Hub struct {
	mu        sync.Mutex
	clients   map[*websocket.Conn]bool
	last      map[model.JobKind][]byte
	broadcast chan []byte
	upgrader  websocket.Upgrader
	logger    *slog.Logger
}

// NewHub creates a new hub
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:   make(map[*websocket.Conn]bool),
		last:      make(map[model.JobKind][]byte),
		broadcast: make(chan []byte, HubBufferSize),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Run writes queued events to the clients until ctx is done
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case msg := <-h.broadcast:
			for _, client := range h.snapshot() {
				if err := h.write(client, msg); err != nil {
					client.Close()
					h.mu.Lock()
					delete(h.clients, client)
					h.mu.Unlock()
				}
			}
		}
	}
}

// Publish queues ev for broadcast. It never blocks; events are dropped when
// the queue is full.
func (h *Hub) Publish(ev model.StatusEvent) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	msg, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("failed to marshal status event", "error", err)
		return
	}

	if ev.Type == model.EventMessage {
		h.mu.Lock()
		h.last[ev.Kind] = msg
		h.mu.Unlock()
	}

	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("status hub queue full, dropping event", "kind", ev.Kind, "type", ev.Type)
	}
}

func (h *Hub) Message(kind model.JobKind, msg string) {
	h.Publish(model.StatusEvent{Kind: kind, Type: model.EventMessage, Message: msg})
}

func (h *Hub) Prompt(kind model.JobKind, title, msg string, severity model.Severity) {
	h.Publish(model.StatusEvent{Kind: kind, Type: model.EventPrompt, Title: title, Message: msg, Severity: severity})
}

func (h *Hub) SetEnabled(kind model.JobKind, enabled bool) {
	h.Publish(model.StatusEvent{Kind: kind, Type: model.EventEnabled, Enabled: enabled})
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// WsHandler upgrades the request and keeps the client registered until it
// disconnects
func (h *Hub) WsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	h.logger.Info("client connected", "remote_addr", r.RemoteAddr)
	h.mu.Lock()
	replay := make([][]byte, 0, len(h.last))
	for _, msg := range h.last {
		replay = append(replay, msg)
	}
	h.mu.Unlock()

	// the conn is registered after the replay so Run never writes to it
	// concurrently
	for _, msg := range replay {
		if err := h.write(conn, msg); err != nil {
			h.logger.Debug("failed to replay status", "error", err)
		}
	}
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
		h.logger.Info("client disconnected", "remote_addr", r.RemoteAddr)
	}()

	for {
		conn.SetReadDeadline(time.Now().Add(HubReadTimeout))
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Error("websocket read error", "error", err)
			}
			return
		}
	}
}

func (h *Hub) snapshot() []*websocket.Conn {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	return clients
}

func (h *Hub) write(conn *websocket.Conn, msg []byte) error {
	conn.SetWriteDeadline(time.Now().Add(HubWriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, msg)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
}

// Package ws implements the WebSocket adapter for real-time dashboard updates.
// Connections are grouped by organization and only ever receive events for
// their own organization.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"
)

// Message is the envelope for all WebSocket messages.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// conn wraps a single WebSocket connection.
type conn struct {
	ws     *websocket.Conn
	orgID  string
	cancel context.CancelFunc
}

// Hub manages all active WebSocket connections grouped by organization.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]map[*conn]struct{} // orgID -> connections
}

// NewHub creates a new WebSocket hub.
func NewHub() *Hub {
	return &Hub{
		conns: make(map[string]map[*conn]struct{}),
	}
}

// Serve upgrades the request to a WebSocket connection and registers it under
// the given organization. The caller is responsible for authenticating the
// request and resolving orgID before calling Serve.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, orgID string) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // CORS handled by middleware
	})
	if err != nil {
		slog.Error("websocket accept failed", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &conn{ws: ws, orgID: orgID, cancel: cancel}

	h.mu.Lock()
	if h.conns[orgID] == nil {
		h.conns[orgID] = make(map[*conn]struct{})
	}
	h.conns[orgID][c] = struct{}{}
	h.mu.Unlock()

	slog.Info("websocket connected", "org_id", orgID, "remote", r.RemoteAddr)

	// Read loop (to detect disconnects and consume pings)
	go func() {
		defer func() {
			h.remove(c)
			_ = ws.Close(websocket.StatusNormalClosure, "")
		}()
		for {
			_, _, err := ws.Read(ctx)
			if err != nil {
				return
			}
		}
	}()
}

// Broadcast sends a message to every connection registered under orgID.
// A slow or failed connection is dropped rather than blocking the rest.
func (h *Hub) Broadcast(ctx context.Context, orgID string, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("websocket marshal failed", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.conns[orgID] {
		if err := c.ws.Write(ctx, websocket.MessageText, data); err != nil {
			slog.Debug("websocket write failed", "org_id", orgID, "error", err)
			go h.remove(c)
		}
	}
}

// ConnectionCount returns the number of active connections for an organization.
func (h *Hub) ConnectionCount(orgID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[orgID])
}

func (h *Hub) remove(c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.conns[c.orgID]; ok {
		if _, ok := set[c]; ok {
			c.cancel()
			delete(set, c)
			if len(set) == 0 {
				delete(h.conns, c.orgID)
			}
			slog.Info("websocket disconnected", "org_id", c.orgID)
		}
	}
}

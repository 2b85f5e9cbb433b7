package http

import (
	"net/http"

	"github.com/wadesk/wadesk/internal/adapter/ws"
	"github.com/wadesk/wadesk/internal/middleware"
	"github.com/wadesk/wadesk/internal/service"
)

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	Auth          *service.AuthService
	Agents        *service.AgentService
	Conversations *service.ConversationService
	Handoff       *service.HandoffService
	Inbound       *service.InboundService
	Outbound      *service.OutboundService
	Hub           *ws.Hub
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleWS handles GET /ws. Auth middleware has already validated the token
// and placed the user on the context; the connection is registered under the
// user's organization.
func (h *Handlers) HandleWS(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}
	h.Hub.Serve(w, r, u.OrgID)
}

package http

import (
	"net/http"

	"github.com/wadesk/wadesk/internal/domain/conversation"
)

// HandleInboundMessage handles POST /api/v1/webhooks/messages, the entry
// point for externally-originated client and AI messages. The call is
// authenticated by the agent API token in the body, not by a user JWT.
func (h *Handlers) HandleInboundMessage(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[conversation.InboundRequest](w, r)
	if !ok {
		return
	}

	res, err := h.Inbound.Handle(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, "agent not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"conversationId": res.ConversationID,
		"messageId":      res.MessageID,
	})
}

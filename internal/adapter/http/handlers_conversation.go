package http

import (
	"errors"
	"net/http"

	"github.com/wadesk/wadesk/internal/domain"
	"github.com/wadesk/wadesk/internal/domain/conversation"
	"github.com/wadesk/wadesk/internal/middleware"
)

// ListConversations handles GET /api/v1/conversations.
func (h *Handlers) ListConversations(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	convs, err := h.Conversations.List(r.Context(), u.OrgID)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if convs == nil {
		convs = []conversation.Conversation{}
	}
	writeJSON(w, http.StatusOK, convs)
}

// GetConversation handles GET /api/v1/conversations/{id}.
func (h *Handlers) GetConversation(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	c, err := h.Conversations.Get(r.Context(), u.OrgID, urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "conversation not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ListConversationMessages handles GET /api/v1/conversations/{id}/messages.
func (h *Handlers) ListConversationMessages(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	msgs, err := h.Conversations.Messages(r.Context(), u.OrgID, urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "conversation not found")
		return
	}
	if msgs == nil {
		msgs = []conversation.Message{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

// TakeControl handles POST /api/v1/conversations/{id}/take-control.
func (h *Handlers) TakeControl(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	c, err := h.Handoff.TakeControl(r.Context(), u.OrgID, u.ID, urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "conversation not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ReturnToAI handles POST /api/v1/conversations/{id}/return-to-ai.
func (h *Handlers) ReturnToAI(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	c, err := h.Handoff.ReturnToAI(r.Context(), u.OrgID, u.ID, urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "conversation not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// SendMessage handles POST /api/v1/conversations/{id}/messages: a human reply
// relayed out to the agent's webhook endpoint.
func (h *Handlers) SendMessage(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	req, ok := readJSON[conversation.OutboundRequest](w, r)
	if !ok {
		return
	}
	req.ConversationID = urlParam(r, "id")

	res, err := h.Outbound.Send(r.Context(), u.OrgID, u.ID, u.Name, &req)
	if err != nil {
		if errors.Is(err, domain.ErrDelivery) {
			// The message is recorded; the dashboard is told delivery failed
			// so it can offer a retry.
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"success":       false,
				"error":         "webhook delivery failed",
				"messageId":     res.MessageID,
				"webhookStatus": res.WebhookStatus,
			})
			return
		}
		writeDomainError(w, err, "conversation not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"messageId":     res.MessageID,
		"webhookStatus": res.WebhookStatus,
	})
}

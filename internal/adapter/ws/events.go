package ws

import (
	"context"
	"encoding/json"
	"log/slog"
)

// BroadcastEvent marshals a typed event payload and broadcasts it to every
// connection of the given organization.
func (h *Hub) BroadcastEvent(ctx context.Context, orgID, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal ws event payload", "type", eventType, "error", err)
		return
	}

	h.Broadcast(ctx, orgID, Message{
		Type:    eventType,
		Payload: json.RawMessage(data),
	})
}

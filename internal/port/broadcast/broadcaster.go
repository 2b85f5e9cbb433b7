// Package broadcast defines the port for realtime fan-out to dashboards.
package broadcast

import "context"

// Event types pushed to dashboard sessions.
const (
	EventNewMessage          = "new_message"
	EventConversationUpdated = "conversation_updated"
)

// Broadcaster pushes state-change events to connected dashboard sessions,
// scoped by organization. Delivery is fire-and-forget and at-most-once per
// connected client; the dashboard re-queries on demand, so a dropped event
// is recoverable.
type Broadcaster interface {
	BroadcastToOrg(ctx context.Context, orgID, eventType string, payload any)
}

package service

import (
	"context"
	"log/slog"
)

// LocalHub is the local WebSocket fan-out the notifier delivers to.
type LocalHub interface {
	BroadcastEvent(ctx context.Context, orgID, eventType string, payload any)
}

// EventPublisher mirrors events to other wadesk instances. Optional.
type EventPublisher interface {
	Publish(ctx context.Context, orgID, eventType string, payload any) error
}

// Notifier implements the broadcast port by delivering events to the local
// WebSocket hub and, when configured, mirroring them to the cross-instance
// event bridge. Bridge failures are logged and never fail the caller.
type Notifier struct {
	hub       LocalHub
	publisher EventPublisher
}

// NewNotifier creates a notifier. publisher may be nil for single-instance
// deployments.
func NewNotifier(hub LocalHub, publisher EventPublisher) *Notifier {
	return &Notifier{hub: hub, publisher: publisher}
}

// BroadcastToOrg delivers an event to every dashboard session of the
// organization.
func (n *Notifier) BroadcastToOrg(ctx context.Context, orgID, eventType string, payload any) {
	n.hub.BroadcastEvent(ctx, orgID, eventType, payload)

	if n.publisher != nil {
		if err := n.publisher.Publish(ctx, orgID, eventType, payload); err != nil {
			slog.Warn("event bridge publish failed", "org_id", orgID, "type", eventType, "error", err)
		}
	}
}

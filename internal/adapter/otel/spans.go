package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "wadesk"

// StartInboundSpan starts a span for inbound message processing.
func StartInboundSpan(ctx context.Context, orgID, agentID string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "inbound",
		trace.WithAttributes(
			attribute.String("org.id", orgID),
			attribute.String("agent.id", agentID),
		),
	)
}

// StartDeliverySpan starts a span for outbound delivery to an agent endpoint.
func StartDeliverySpan(ctx context.Context, conversationID, agentID string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "delivery",
		trace.WithAttributes(
			attribute.String("conversation.id", conversationID),
			attribute.String("agent.id", agentID),
		),
	)
}

package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "wadesk"

// Metrics holds all wadesk metric instruments.
type Metrics struct {
	MessagesInbound      metric.Int64Counter
	MessagesOutbound     metric.Int64Counter
	ConversationsCreated metric.Int64Counter
	Handoffs             metric.Int64Counter
	DeliveryFailures     metric.Int64Counter
	DeliveryDuration     metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.MessagesInbound, err = meter.Int64Counter("wadesk.messages.inbound",
		metric.WithDescription("Number of inbound client messages accepted"))
	if err != nil {
		return nil, err
	}

	m.MessagesOutbound, err = meter.Int64Counter("wadesk.messages.outbound",
		metric.WithDescription("Number of outbound human replies sent"))
	if err != nil {
		return nil, err
	}

	m.ConversationsCreated, err = meter.Int64Counter("wadesk.conversations.created",
		metric.WithDescription("Number of conversations created"))
	if err != nil {
		return nil, err
	}

	m.Handoffs, err = meter.Int64Counter("wadesk.handoffs",
		metric.WithDescription("Number of AI/human handoff transitions"))
	if err != nil {
		return nil, err
	}

	m.DeliveryFailures, err = meter.Int64Counter("wadesk.delivery.failures",
		metric.WithDescription("Number of failed outbound deliveries to agent endpoints"))
	if err != nil {
		return nil, err
	}

	m.DeliveryDuration, err = meter.Float64Histogram("wadesk.delivery.duration_seconds",
		metric.WithDescription("Outbound delivery duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

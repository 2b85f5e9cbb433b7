// Package nats implements a cross-instance event bridge using NATS JetStream.
// When wadesk runs as multiple replicas, each instance publishes its realtime
// events to NATS and replays events from other instances into its local
// WebSocket hub, so every dashboard sees every update regardless of which
// replica handled the originating request.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const streamName = "WADESK"

// envelope is the wire format for bridged events. Origin carries the
// publishing instance ID so an instance can skip its own events on replay.
type envelope struct {
	Origin    string          `json:"origin"`
	OrgID     string          `json:"org_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
}

// LocalBroadcaster receives events replayed from other instances.
type LocalBroadcaster interface {
	BroadcastEvent(ctx context.Context, orgID, eventType string, payload any)
}

// Bridge connects the local WebSocket hub to NATS JetStream.
type Bridge struct {
	nc         *nats.Conn
	js         jetstream.JetStream
	instanceID string
	stop       func()
}

// Connect establishes a connection to NATS and ensures the JetStream stream exists.
func Connect(ctx context.Context, url string) (*Bridge, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream init: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{"events.>"},
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream stream create: %w", err)
	}

	b := &Bridge{nc: nc, js: js, instanceID: uuid.NewString()}
	slog.Info("nats connected", "url", url, "stream", streamName, "instance_id", b.instanceID)
	return b, nil
}

// Publish sends an event to the bridge under subject "events.<orgID>".
func (b *Bridge) Publish(ctx context.Context, orgID, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	env, err := json.Marshal(envelope{
		Origin:    b.instanceID,
		OrgID:     orgID,
		EventType: eventType,
		Payload:   json.RawMessage(data),
	})
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	subject := "events." + orgID
	if _, err := b.js.Publish(ctx, subject, env); err != nil {
		return fmt.Errorf("nats publish %s: %w", subject, err)
	}
	return nil
}

// Relay subscribes to all bridged events and replays those published by other
// instances into the local broadcaster. Events published by this instance are
// skipped; the hub already delivered them locally.
func (b *Bridge) Relay(ctx context.Context, local LocalBroadcaster) error {
	consumer, err := b.js.CreateOrUpdateConsumer(ctx, streamName, jetstream.ConsumerConfig{
		FilterSubject: "events.>",
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return fmt.Errorf("nats consumer create: %w", err)
	}

	cons, err := consumer.Consume(func(msg jetstream.Msg) {
		var env envelope
		if err := json.Unmarshal(msg.Data(), &env); err != nil {
			slog.Error("decode bridged event", "subject", msg.Subject(), "error", err)
			_ = msg.Ack()
			return
		}
		if env.Origin != b.instanceID {
			local.BroadcastEvent(ctx, env.OrgID, env.EventType, env.Payload)
		}
		if ackErr := msg.Ack(); ackErr != nil {
			slog.Error("nats ack failed", "error", ackErr)
		}
	})
	if err != nil {
		return fmt.Errorf("nats consume: %w", err)
	}

	b.stop = cons.Stop
	return nil
}

// Close stops the relay consumer and shuts down the NATS connection.
func (b *Bridge) Close() error {
	if b.stop != nil {
		b.stop()
	}
	b.nc.Close()
	return nil
}
